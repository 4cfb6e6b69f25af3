package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"microblog-backend/internal/domains/group"
	"microblog-backend/pkg/cache"
)

// postgresRepository implements group.Repository with read-through
// Redis caching. Groups are immutable at runtime, so cached entries
// never go stale within their TTL.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) group.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const (
	groupCacheKeyPrefix = "group:"
	groupSlugKeyPrefix  = "group:slug:"
	cacheTTL            = 15 * time.Minute
)

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*group.Group, error) {
	cacheKey := groupCacheKeyPrefix + strconv.FormatInt(id, 10)

	var g group.Group
	if found, err := r.cache.Get(ctx, cacheKey, &g); err == nil && found {
		return &g, nil
	}

	query := `
        SELECT id, title, slug, description
        FROM groups
        WHERE id = $1
    `

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.Title,
		&g.Slug,
		&g.Description,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, group.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by id: %w", err)
	}

	// Best effort, a cache failure must not fail the read
	_ = r.cache.Set(ctx, cacheKey, g, cacheTTL)

	return &g, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*group.Group, error) {
	cacheKey := groupSlugKeyPrefix + slug

	var g group.Group
	if found, err := r.cache.Get(ctx, cacheKey, &g); err == nil && found {
		return &g, nil
	}

	query := `
        SELECT id, title, slug, description
        FROM groups
        WHERE slug = $1
    `

	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&g.ID,
		&g.Title,
		&g.Slug,
		&g.Description,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, group.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by slug: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, g, cacheTTL)

	return &g, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]group.Group, error) {
	query := `
        SELECT id, title, slug, description
        FROM groups
        ORDER BY title, id
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []group.Group
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	return groups, nil
}
