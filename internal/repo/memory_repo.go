package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "todoman/internal/domain"
	"todoman/internal/page"
	"todoman/internal/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryTodoRepo implements TodoRepo with an in-process map. Used by
// tests and as a storage-free dev mode; ids use the same 24-hex
// encoding as the Mongo implementation.
type MemoryTodoRepo struct {
	mu    sync.RWMutex
	todos map[string]dom.Todo
	order []string // insertion order keeps paging deterministic for ties
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{todos: make(map[string]dom.Todo)}
}

func (r *MemoryTodoRepo) List(_ context.Context, f query.Filter, s query.Sort, w page.Window) ([]dom.Todo, int, error) {
	r.mu.RLock()
	matched := make([]dom.Todo, 0, len(r.order))
	for _, id := range r.order {
		if t := r.todos[id]; f.Matches(t) {
			matched = append(matched, t)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return s.Less(matched[i], matched[j]) })

	total := len(matched)
	lo := w.Skip()
	if lo > total {
		lo = total
	}
	hi := lo + w.Limit
	if hi > total {
		hi = total
	}
	return matched[lo:hi], total, nil
}

func (r *MemoryTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID().Hex()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.todos[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, error) {
	if !dom.ValidID(id) {
		return dom.Todo{}, dom.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, dom.ErrNotFound
	}
	return t, nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, id string, p Patch) (dom.Todo, error) {
	if !dom.ValidID(id) {
		return dom.Todo{}, dom.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, dom.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = time.Now().UTC()
	r.todos[id] = t
	return t, nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id string) (dom.Todo, error) {
	if !dom.ValidID(id) {
		return dom.Todo{}, dom.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, dom.ErrNotFound
	}
	delete(r.todos, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return t, nil
}

func (r *MemoryTodoRepo) Ping(context.Context) error { return nil }
