package group

// Group is a named topic posts can be assigned to.
// Groups are created administratively and read-only here; the slug is
// the immutable routing identifier, distinct from the numeric id.
type Group struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}
