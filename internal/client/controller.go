package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	dom "todoman/internal/domain"
)

// ErrInFlight means a mutation for the same target is already running;
// the triggering control should stay disabled until it finishes.
var ErrInFlight = errors.New("mutation already in flight")

// Spec is the active filter/sort/page state driving fetches.
type Spec struct {
	Search string
	Status string
	SortBy string
	Page   int
	Limit  int
}

// View is what the user sees: the projected page plus pagination.
type View struct {
	Todos      []Todo
	Pagination Pagination
}

// Outcome identifies the item a mutation touched, for user-facing
// confirmation.
type Outcome struct {
	Title  string
	Action string
}

// Controller owns the view state. It sequences mutations
// (validate locally, write, refetch) and guards fetches against
// out-of-order responses with a monotonic sequence number: a response
// is applied only if no newer fetch has started since.
type Controller struct {
	api *Client

	mu       sync.Mutex
	spec     Spec
	view     View
	inflight map[string]bool

	seq atomic.Uint64
}

func NewController(api *Client) *Controller {
	return &Controller{
		api: api,
		spec: Spec{
			Status: "all",
			SortBy: "dueDate",
			Page:   1,
			Limit:  10,
		},
		inflight: make(map[string]bool),
	}
}

// Spec returns the current fetch spec.
func (c *Controller) Spec() Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// View returns the current display state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{Pagination: c.view.Pagination}
	v.Todos = append(v.Todos, c.view.Todos...)
	return v
}

// SetSearch updates the search text. Any filter change resets to page 1
// so the user is never stranded past the end of the narrowed result set.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spec.Search != s {
		c.spec.Search = s
		c.spec.Page = 1
	}
}

func (c *Controller) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spec.Status != status {
		c.spec.Status = status
		c.spec.Page = 1
	}
}

func (c *Controller) SetSort(sortBy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spec.SortBy != sortBy {
		c.spec.SortBy = sortBy
		c.spec.Page = 1
	}
}

func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n >= 1 {
		c.spec.Page = n
	}
}

// SetLimit changes the page size and resets to page 1.
func (c *Controller) SetLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n >= 1 {
		c.spec.Limit = n
		c.spec.Page = 1
	}
}

// Refresh fetches with the current spec and installs the result unless
// it has been superseded by a later fetch.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	spec := c.spec
	c.mu.Unlock()

	seq := c.seq.Add(1)
	res, err := c.api.ListTodos(ctx, Params{
		Search: spec.Search,
		Status: spec.Status,
		SortBy: spec.SortBy,
		Page:   spec.Page,
		Limit:  spec.Limit,
	})
	if err != nil {
		return err
	}
	c.apply(seq, res)
	return nil
}

// apply installs a fetched result; stale responses are discarded. The
// staleness check runs under the same lock as the install, so a response
// superseded while waiting for the lock can never overwrite a newer one.
func (c *Controller) apply(seq uint64, res ListResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq.Load() {
		return false
	}
	c.view = View{Todos: Project(res.Todos), Pagination: res.Pagination}
	return true
}

// ValidateForm checks a create payload locally. Failures never reach
// the network.
func ValidateForm(f Form) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return dom.Invalid("Title is required")
	}
	if utf8.RuneCountInString(title) > dom.MaxTitleLen {
		return dom.Invalid("Title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Description)) > dom.MaxDescriptionLen {
		return dom.Invalid("Description cannot exceed 1000 characters")
	}
	if strings.TrimSpace(f.DueDate) == "" {
		return dom.Invalid("Due date is required")
	}
	if _, ok := parseDue(strings.TrimSpace(f.DueDate)); !ok {
		return dom.Invalid("Invalid due date format")
	}
	return nil
}

// Create validates, posts, then refetches so counts and pages reflect
// the new item.
func (c *Controller) Create(ctx context.Context, f Form) (Outcome, error) {
	if err := ValidateForm(f); err != nil {
		return Outcome{}, err
	}
	if !c.begin("create") {
		return Outcome{}, ErrInFlight
	}
	defer c.end("create")

	t, err := c.api.CreateTodo(ctx, f)
	if err != nil {
		return Outcome{}, err
	}
	if err := c.Refresh(ctx); err != nil {
		return Outcome{Title: t.Title, Action: "created"}, err
	}
	return Outcome{Title: t.Title, Action: "created"}, nil
}

// Toggle flips only the completed flag; other fields are untouched.
func (c *Controller) Toggle(ctx context.Context, id string, completed bool) (Outcome, error) {
	if !dom.ValidID(id) {
		return Outcome{}, dom.ErrInvalidID
	}
	if !c.begin(id) {
		return Outcome{}, ErrInFlight
	}
	defer c.end(id)

	t, err := c.api.UpdateTodo(ctx, id, Updates{Completed: &completed})
	if err != nil {
		return Outcome{}, err
	}
	action := "completed"
	if !completed {
		action = "reopened"
	}
	if err := c.Refresh(ctx); err != nil {
		return Outcome{Title: t.Title, Action: action}, err
	}
	return Outcome{Title: t.Title, Action: action}, nil
}

// Update edits the supplied fields only.
func (c *Controller) Update(ctx context.Context, id string, u Updates) (Outcome, error) {
	if !dom.ValidID(id) {
		return Outcome{}, dom.ErrInvalidID
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return Outcome{}, dom.Invalid("Title cannot be empty")
	}
	if u.DueDate != nil {
		if _, ok := parseDue(strings.TrimSpace(*u.DueDate)); !ok {
			return Outcome{}, dom.Invalid("Invalid due date format")
		}
	}
	if !c.begin(id) {
		return Outcome{}, ErrInFlight
	}
	defer c.end(id)

	t, err := c.api.UpdateTodo(ctx, id, u)
	if err != nil {
		return Outcome{}, err
	}
	if err := c.Refresh(ctx); err != nil {
		return Outcome{Title: t.Title, Action: "updated"}, err
	}
	return Outcome{Title: t.Title, Action: "updated"}, nil
}

// Delete removes the item and reports the title of what was removed.
func (c *Controller) Delete(ctx context.Context, id string) (Outcome, error) {
	if !dom.ValidID(id) {
		return Outcome{}, dom.ErrInvalidID
	}
	if !c.begin(id) {
		return Outcome{}, ErrInFlight
	}
	defer c.end(id)

	t, err := c.api.DeleteTodo(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if err := c.Refresh(ctx); err != nil {
		return Outcome{Title: t.Title, Action: "deleted"}, err
	}
	return Outcome{Title: t.Title, Action: "deleted"}, nil
}

// begin marks a mutation target busy; a second mutation for the same
// target is refused while the first is in flight. Different targets
// may run concurrently.
func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}
