package post

import "context"

// Repository is the post data access contract. Every listing returns a
// plain ordered slice (pub_date desc, id desc), no deferred execution.
type Repository interface {
	Create(ctx context.Context, text string, authorID int64, groupID *int64) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)

	// Update mutates text and group only; author and pub_date are
	// untouched by construction of the statement.
	Update(ctx context.Context, id int64, text string, groupID *int64) (*Post, error)

	ListAll(ctx context.Context, limit, offset int) ([]Post, error)
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]Post, error)

	CountAll(ctx context.Context) (int, error)
	CountByGroup(ctx context.Context, groupID int64) (int, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
