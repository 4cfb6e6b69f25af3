package post

import "time"

// Post is a single authored entry. Author is set at creation from the
// authenticated requester and never reassigned; PubDate is set once
// and is the sole ordering key for every feed (ties broken by id).
//
// Author username and group title/slug are joined in by the repository
// so listings render without per-row lookups.
type Post struct {
	ID             int64     `json:"id" db:"id"`
	Text           string    `json:"text" db:"text"`
	AuthorID       int64     `json:"author_id" db:"author_id"`
	AuthorUsername string    `json:"author_username" db:"author_username"`
	GroupID        *int64    `json:"group_id,omitempty" db:"group_id"`
	GroupTitle     *string   `json:"group_title,omitempty" db:"group_title"`
	GroupSlug      *string   `json:"group_slug,omitempty" db:"group_slug"`
	PubDate        time.Time `json:"pub_date" db:"pub_date"`
}

// titleRunes is how much of the text becomes the detail page title.
const titleRunes = 31

// Title derives the display title: a raw slice of the first 31
// characters, not word-aware.
func (p *Post) Title() string {
	r := []rune(p.Text)
	if len(r) > titleRunes {
		return string(r[:titleRunes])
	}
	return p.Text
}
