package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"microblog-backend/internal/domains/post"
)

// postgresRepository implements post.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) post.Repository {
	return &postgresRepository{pool: pool}
}

// postColumns joins in the author username and group metadata so every
// read returns a display-ready row.
const postColumns = `
        p.id, p.text, p.author_id, u.username, p.group_id, g.title, g.slug, p.pub_date
    FROM posts p
    JOIN users u ON u.id = p.author_id
    LEFT JOIN groups g ON g.id = p.group_id
`

// Feeds order by pub_date desc with id desc as the deterministic
// tie-breaker for posts created in the same instant.
const feedOrder = ` ORDER BY p.pub_date DESC, p.id DESC LIMIT $%d OFFSET $%d`

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post
	err := row.Scan(
		&p.ID,
		&p.Text,
		&p.AuthorID,
		&p.AuthorUsername,
		&p.GroupID,
		&p.GroupTitle,
		&p.GroupSlug,
		&p.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, text string, authorID int64, groupID *int64) (*post.Post, error) {
	// RETURNING only yields the bare row; re-read through the join to
	// hand back a display-ready post.
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts (text, author_id, group_id) VALUES ($1, $2, $3) RETURNING id`,
		text, authorID, groupID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created post: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` WHERE p.id = $1`

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return p, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, text string, groupID *int64) (*post.Post, error) {
	// text and group_id only: author_id and pub_date are not part of
	// the statement, so they cannot change.
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET text = $2, group_id = $3 WHERE id = $1`,
		id, text, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, post.ErrPostNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *postgresRepository) ListAll(ctx context.Context, limit, offset int) ([]post.Post, error) {
	query := `SELECT ` + postColumns + fmt.Sprintf(feedOrder, 1, 2)
	return r.list(ctx, query, limit, offset)
}

func (r *postgresRepository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]post.Post, error) {
	query := `SELECT ` + postColumns + ` WHERE p.group_id = $1` + fmt.Sprintf(feedOrder, 2, 3)
	return r.list(ctx, query, groupID, limit, offset)
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]post.Post, error) {
	query := `SELECT ` + postColumns + ` WHERE p.author_id = $1` + fmt.Sprintf(feedOrder, 2, 3)
	return r.list(ctx, query, authorID, limit, offset)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]post.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}

func (r *postgresRepository) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (r *postgresRepository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE group_id = $1`, groupID)
}

func (r *postgresRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
}

func (r *postgresRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}
