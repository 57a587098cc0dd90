package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"todoman/internal/cache"
	dom "todoman/internal/domain"
	"todoman/internal/page"
	"todoman/internal/query"
	"todoman/internal/repo"
)

// TodoService runs the query pipeline and sequences mutations:
// validate, write, invalidate cached listings.
type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.QueryCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.QueryCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

type listResult struct {
	todos []dom.Todo
	total int
}

// List executes the filter/sort/page pipeline. The returned metadata is
// derived from the full-predicate count, not the page length.
func (s *TodoService) List(ctx context.Context, f query.Filter, srt query.Sort, w page.Window) ([]dom.Todo, page.Meta, error) {
	if s.cache == nil {
		todos, total, err := s.repo.List(ctx, f, srt, w)
		if err != nil {
			return nil, page.Meta{}, err
		}
		return todos, w.Meta(total), nil
	}

	key := cache.Key(f, srt, w)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if todos, total, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return listResult{todos: todos, total: total}, nil
		}
		todos, total, err := s.repo.List(ctx, f, srt, w)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, key, todos, total)
		return listResult{todos: todos, total: total}, nil
	})
	if err != nil {
		return nil, page.Meta{}, err
	}
	res := v.(listResult)
	return res.todos, w.Meta(res.total), nil
}

// Create validates and inserts a new todo. Validation failures never
// reach the store.
func (s *TodoService) Create(ctx context.Context, title, desc string, due *time.Time) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)

	if title == "" {
		return dom.Todo{}, dom.Invalid("Title is required")
	}
	if utf8.RuneCountInString(title) > dom.MaxTitleLen {
		return dom.Todo{}, dom.Invalid("Title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(desc) > dom.MaxDescriptionLen {
		return dom.Todo{}, dom.Invalid("Description cannot exceed 1000 characters")
	}
	if due == nil {
		return dom.Todo{}, dom.Invalid("Due date is required")
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		Title:       title,
		Description: desc,
		DueDate:     due,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Update applies a partial patch: nil fields stay untouched. The id is
// checked before any storage call.
func (s *TodoService) Update(ctx context.Context, id string, p repo.Patch) (dom.Todo, error) {
	if !dom.ValidID(id) {
		return dom.Todo{}, dom.ErrInvalidID
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return dom.Todo{}, dom.Invalid("Title cannot be empty")
		}
		if utf8.RuneCountInString(title) > dom.MaxTitleLen {
			return dom.Todo{}, dom.Invalid("Title cannot exceed 200 characters")
		}
		p.Title = &title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if utf8.RuneCountInString(desc) > dom.MaxDescriptionLen {
			return dom.Todo{}, dom.Invalid("Description cannot exceed 1000 characters")
		}
		p.Description = &desc
	}

	// Nothing to change: report the current record without a write, so
	// updatedAt is not bumped and cached listings stay valid.
	if p.Empty() {
		return s.repo.GetByID(ctx, id)
	}

	t, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes the todo and returns the record as it was before
// deletion.
func (s *TodoService) Delete(ctx context.Context, id string) (dom.Todo, error) {
	if !dom.ValidID(id) {
		return dom.Todo{}, dom.ErrInvalidID
	}
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Ping reports store reachability for the health endpoint.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
