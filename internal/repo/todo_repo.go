package repo

import (
	"context"
	"time"

	dom "todoman/internal/domain"
	"todoman/internal/page"
	"todoman/internal/query"
)

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.DueDate == nil
}

// TodoRepo is the storage contract. List returns the requested window
// plus the total count of items matching the filter regardless of the
// window; implementations must compute that count against the full
// predicate, never from the page length.
type TodoRepo interface {
	List(ctx context.Context, f query.Filter, s query.Sort, w page.Window) ([]dom.Todo, int, error)
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	Update(ctx context.Context, id string, p Patch) (dom.Todo, error)
	Delete(ctx context.Context, id string) (dom.Todo, error)
	Ping(ctx context.Context) error
}
