package post

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")

	// ErrNotOwner marks an edit attempt by someone other than the
	// post's author. Handlers redirect silently, they never render it.
	ErrNotOwner = errors.New("requester is not the post author")
)
