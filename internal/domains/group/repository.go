package group

import "context"

// Repository is the group data access contract. Groups are read-only
// from the application's perspective; creation happens in SQL.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	ListAll(ctx context.Context) ([]Group, error)
}
