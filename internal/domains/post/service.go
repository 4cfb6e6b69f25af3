package post

import (
	"context"

	"microblog-backend/internal/domains/group"
	"microblog-backend/internal/domains/user"
	"microblog-backend/internal/shared/pagination"
)

// Listing is one page of a feed.
type Listing struct {
	Posts []Post
	Page  pagination.Page
}

// GroupListing is one page of a group's feed plus the group metadata.
type GroupListing struct {
	Group *group.Group
	Listing
}

// ProfileListing is one page of an author's posts plus the author.
// Total post count for the author is Page.TotalItems.
type ProfileListing struct {
	Author *user.User
	Listing
}

// Service is the posts business logic contract.
type Service interface {
	// Feed lists all posts newest-first. The page number is clamped
	// into the valid range.
	Feed(ctx context.Context, pageNumber, pageSize int) (*Listing, error)

	// GroupFeed lists a group's posts newest-first;
	// group.ErrGroupNotFound when the slug resolves to nothing.
	GroupFeed(ctx context.Context, slug string, pageNumber, pageSize int) (*GroupListing, error)

	// Profile lists an author's posts newest-first;
	// user.ErrUserNotFound when the username resolves to nothing.
	Profile(ctx context.Context, username string, pageNumber, pageSize int) (*ProfileListing, error)

	// Detail resolves a single post; ErrPostNotFound when absent.
	Detail(ctx context.Context, id int64) (*Post, error)

	// GetForEdit resolves a post for editing: ErrPostNotFound when
	// absent, ErrNotOwner when the requester is not its author.
	GetForEdit(ctx context.Context, requesterID, postID int64) (*Post, error)

	// Create persists a new post authored by the requester. Invalid
	// input comes back as FieldErrors with nothing persisted.
	Create(ctx context.Context, authorID int64, f *Form) (*Post, FieldErrors, error)

	// Edit mutates text/group of the requester's own post. Author and
	// pub_date are never touched. ErrNotOwner when the requester is
	// not the author; FieldErrors on invalid input, nothing persisted.
	Edit(ctx context.Context, requesterID, postID int64, f *Form) (*Post, FieldErrors, error)

	// GroupChoices lists the groups offered by the post form.
	GroupChoices(ctx context.Context) ([]group.Group, error)
}
