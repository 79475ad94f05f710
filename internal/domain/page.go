package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageRequest selects one page of a cursor-paginated listing.
// Cursor is opaque to clients; an empty cursor starts from the beginning.
type PageRequest struct {
	Limit  int
	Cursor string
}

// Page is one page of results. NextCursor is empty on the last page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	Limit      int    `json:"limit"`
}
