// Package page computes the result window and navigation metadata for
// paginated listings.
package page

// Page size bounds; requests outside the range are clamped, never rejected.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Window is the normalized (page, limit) pair.
type Window struct {
	Page  int
	Limit int
}

// Normalize clamps limit into [1, MaxLimit] and page to >= 1. Page is
// deliberately not clamped against the last page: requesting past the
// end yields an empty list with accurate metadata.
func Normalize(pageNum, limit int) Window {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Page: pageNum, Limit: limit}
}

// Skip is the number of items before the window.
func (w Window) Skip() int {
	return (w.Page - 1) * w.Limit
}

// Meta is the pagination block returned with every listing.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTodos  int  `json:"totalTodos"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Meta derives navigation metadata from the total count of items
// matching the filter (not the page length). Zero total means zero pages.
func (w Window) Meta(total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + w.Limit - 1) / w.Limit
	}
	return Meta{
		CurrentPage: w.Page,
		TotalPages:  totalPages,
		TotalTodos:  total,
		HasNextPage: w.Page < totalPages,
		HasPrevPage: w.Page > 1,
	}
}
