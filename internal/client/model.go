// Package client is the Go consumer of the todo API: a thin REST
// wrapper plus the view-side machinery (display re-sort, debounced
// search, stale-response handling, mutation sequencing).
package client

// Todo is the wire shape of an item. Timestamps stay as strings on
// this side; the projector parses due dates leniently so a bad value
// degrades to "no due date" instead of failing the whole page.
type Todo struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"dueDate"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTodos  int  `json:"totalTodos"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type ListResult struct {
	Todos      []Todo     `json:"todos"`
	Pagination Pagination `json:"pagination"`
}

type Health struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Database  string  `json:"database"`
}

// Form is the create payload.
type Form struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// Updates is a partial update payload: nil fields are not sent.
type Updates struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}
