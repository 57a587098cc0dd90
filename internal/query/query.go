// Package query turns raw (search, status, sortBy) input into a
// storage-agnostic filter and sort specification. Pure, no I/O.
package query

import (
	"fmt"
	"strings"

	"todoman/internal/domain"
)

// Status narrows by completion state.
type Status string

const (
	StatusAll        Status = "all"
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// SortMode selects one of the supported orderings. Only one mode is
// active at a time; DueDate carries the completed-first tie-break.
type SortMode string

const (
	// SortDueDate orders incomplete before completed, then due date
	// ascending, with missing due dates last.
	SortDueDate SortMode = "dueDate"
	// SortCreatedAt orders newest first.
	SortCreatedAt SortMode = "createdAt"
	// SortTitle orders by title ascending.
	SortTitle SortMode = "title"
)

// Filter is the normalized filter spec: trimmed search text plus status.
type Filter struct {
	Search string
	Status Status
}

// Sort is the normalized sort spec.
type Sort struct {
	Mode SortMode
}

// ParseFilter normalizes raw query input. Empty search means no text
// constraint; empty status means all. "active" is accepted as a synonym
// for incomplete (older clients send it).
func ParseFilter(search, status string) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(search)}
	switch status {
	case "", "all":
		f.Status = StatusAll
	case "completed":
		f.Status = StatusCompleted
	case "incomplete", "active":
		f.Status = StatusIncomplete
	default:
		return Filter{}, domain.Invalid(fmt.Sprintf("Invalid status filter: %q", status))
	}
	return f, nil
}

// ParseSort normalizes the sortBy parameter, defaulting to due date.
func ParseSort(sortBy string) (Sort, error) {
	switch sortBy {
	case "", "dueDate":
		return Sort{Mode: SortDueDate}, nil
	case "createdAt":
		return Sort{Mode: SortCreatedAt}, nil
	case "title":
		return Sort{Mode: SortTitle}, nil
	default:
		return Sort{}, domain.Invalid(fmt.Sprintf("Invalid sortBy: %q", sortBy))
	}
}

// Matches reports whether t satisfies the filter predicate: search text
// (case-insensitive) appears in title or description, and the completion
// state matches.
func (f Filter) Matches(t domain.Todo) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusIncomplete:
		if t.Completed {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Less is the comparator for the sort spec. For SortDueDate: incomplete
// before completed, then missing due dates last, then due date ascending.
// Equal elements compare false both ways so a stable sort preserves
// their relative order.
func (s Sort) Less(a, b domain.Todo) bool {
	switch s.Mode {
	case SortCreatedAt:
		return a.CreatedAt.After(b.CreatedAt)
	case SortTitle:
		return a.Title < b.Title
	}
	if a.Completed != b.Completed {
		return !a.Completed
	}
	aDue, bDue := a.DueDate != nil, b.DueDate != nil
	if aDue != bDue {
		return aDue
	}
	if !aDue {
		return false
	}
	return a.DueDate.Before(*b.DueDate)
}
