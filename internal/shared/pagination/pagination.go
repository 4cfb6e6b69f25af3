package pagination

import "strconv"

// ParsePage turns a raw ?page= query value into a 1-based page number.
// Non-numeric or sub-1 values fall back to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Page is a clamped window over an ordered result set.
// The requested number is clamped into [1, TotalPages]: asking for a
// page past the end yields the last page, never an empty one.
type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// New builds a Page for the requested number given the collection size.
func New(number, size, totalItems int) Page {
	if size < 1 {
		size = 1
	}

	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Offset is the number of items preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) PrevNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}
