package service

import (
	"context"
	"errors"
	"fmt"

	"microblog-backend/internal/domains/group"
	"microblog-backend/internal/domains/post"
	"microblog-backend/internal/domains/user"
	"microblog-backend/internal/shared/pagination"
)

type postService struct {
	posts  post.Repository
	groups group.Repository
	users  user.Repository
}

func NewPostService(posts post.Repository, groups group.Repository, users user.Repository) post.Service {
	return &postService{
		posts:  posts,
		groups: groups,
		users:  users,
	}
}

func (s *postService) Feed(ctx context.Context, pageNumber, pageSize int) (*post.Listing, error) {
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	page := pagination.New(pageNumber, pageSize, total)

	posts, err := s.posts.ListAll(ctx, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	return &post.Listing{Posts: posts, Page: page}, nil
}

func (s *postService) GroupFeed(ctx context.Context, slug string, pageNumber, pageSize int) (*post.GroupListing, error) {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.posts.CountByGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	page := pagination.New(pageNumber, pageSize, total)

	posts, err := s.posts.ListByGroup(ctx, g.ID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	return &post.GroupListing{
		Group:   g,
		Listing: post.Listing{Posts: posts, Page: page},
	}, nil
}

func (s *postService) Profile(ctx context.Context, username string, pageNumber, pageSize int) (*post.ProfileListing, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	page := pagination.New(pageNumber, pageSize, total)

	posts, err := s.posts.ListByAuthor(ctx, author.ID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	return &post.ProfileListing{
		Author:  author,
		Listing: post.Listing{Posts: posts, Page: page},
	}, nil
}

func (s *postService) Detail(ctx context.Context, id int64) (*post.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *postService) GetForEdit(ctx context.Context, requesterID, postID int64) (*post.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if p.AuthorID != requesterID {
		return nil, post.ErrNotOwner
	}

	return p, nil
}

func (s *postService) Create(ctx context.Context, authorID int64, f *post.Form) (*post.Post, post.FieldErrors, error) {
	fieldErrors, err := s.validate(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	created, err := s.posts.Create(ctx, f.Text, authorID, f.GroupID)
	if err != nil {
		return nil, nil, err
	}

	return created, nil, nil
}

func (s *postService) Edit(ctx context.Context, requesterID, postID int64, f *post.Form) (*post.Post, post.FieldErrors, error) {
	// Ownership gate before anything else: a non-author must cause
	// zero mutation regardless of what they submitted.
	if _, err := s.GetForEdit(ctx, requesterID, postID); err != nil {
		return nil, nil, err
	}

	fieldErrors, err := s.validate(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	updated, err := s.posts.Update(ctx, postID, f.Text, f.GroupID)
	if err != nil {
		return nil, nil, err
	}

	return updated, nil, nil
}

func (s *postService) GroupChoices(ctx context.Context) ([]group.Group, error) {
	return s.groups.ListAll(ctx)
}

// validate runs the pure field rules plus the repository-backed group
// existence check. Persistence happens strictly after this passes.
func (s *postService) validate(ctx context.Context, f *post.Form) (post.FieldErrors, error) {
	fieldErrors := f.Validate()

	if f.GroupID != nil {
		if _, err := s.groups.GetByID(ctx, *f.GroupID); err != nil {
			if errors.Is(err, group.ErrGroupNotFound) {
				if fieldErrors == nil {
					fieldErrors = post.FieldErrors{}
				}
				fieldErrors["group"] = "select a valid group"
			} else {
				return nil, fmt.Errorf("failed to check group: %w", err)
			}
		}
	}

	return fieldErrors, nil
}
