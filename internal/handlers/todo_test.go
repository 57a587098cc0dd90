package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dom "todoman/internal/domain"
	"todoman/internal/dto"
	"todoman/internal/repo"
	"todoman/internal/service"
)

func newTestRouter() (*gin.Engine, *repo.MemoryTodoRepo) {
	gin.SetMode(gin.TestMode)
	mem := repo.NewMemoryTodoRepo()
	svc := service.NewTodoService(mem, nil)

	r := gin.New()
	h := NewTodoHandler(svc)
	api := r.Group("/api")
	api.GET("/todos", h.List)
	api.POST("/todos", h.Create)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.GET("/health", NewHealthHandler(svc).Health)
	return r, mem
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func mustSeed(t *testing.T, mem *repo.MemoryTodoRepo, todos ...dom.Todo) []dom.Todo {
	t.Helper()
	out := make([]dom.Todo, len(todos))
	for i, td := range todos {
		created, err := mem.Create(context.Background(), td)
		require.NoError(t, err)
		out[i] = created
	}
	return out
}

func due(s string) *time.Time {
	v, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &v
}

func TestCreateTodo(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/todos", `{"title":"Buy milk","description":"two bottles","dueDate":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, dom.ValidID(got.ID))
	assert.Equal(t, "Buy milk", got.Title)
	assert.False(t, got.Completed)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.DueDate.UTC())
}

func TestCreateTodoValidation(t *testing.T) {
	r, _ := newTestRouter()

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing title", `{"dueDate":"2025-06-01"}`, "Title is required"},
		{"whitespace title", `{"title":"   ","dueDate":"2025-06-01"}`, "Title is required"},
		{"missing due date", `{"title":"T"}`, "Due date is required"},
		{"bad due date", `{"title":"T","dueDate":"tomorrow-ish"}`, "Invalid due date format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/todos", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantMsg, errMsg(t, w))
		})
	}
}

func TestListTodos(t *testing.T) {
	r, mem := newTestRouter()
	mustSeed(t, mem,
		dom.Todo{Title: "buy milk", DueDate: due("2025-01-02")},
		dom.Todo{Title: "walk dog", DueDate: due("2025-01-01")},
		dom.Todo{Title: "pay rent", Completed: true, DueDate: due("2025-01-01")},
	)

	w := doJSON(r, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Pagination.TotalTodos)
	assert.Equal(t, 1, got.Pagination.TotalPages)
	require.Len(t, got.Todos, 3)
	// Incomplete first by due date, completed last.
	assert.Equal(t, "walk dog", got.Todos[0].Title)
	assert.Equal(t, "buy milk", got.Todos[1].Title)
	assert.Equal(t, "pay rent", got.Todos[2].Title)
}

func TestListTodosFilters(t *testing.T) {
	r, mem := newTestRouter()
	mustSeed(t, mem,
		dom.Todo{Title: "buy milk", DueDate: due("2025-01-02")},
		dom.Todo{Title: "walk dog", DueDate: due("2025-01-01")},
		dom.Todo{Title: "pay rent", Completed: true, DueDate: due("2025-01-01")},
	)

	w := doJSON(r, http.MethodGet, "/api/todos?status=completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Pagination.TotalTodos)
	require.Len(t, got.Todos, 1)
	assert.Equal(t, "pay rent", got.Todos[0].Title)

	w = doJSON(r, http.MethodGet, "/api/todos?search=MILK&status=incomplete", "")
	require.Equal(t, http.StatusOK, w.Code)
	got = dto.ListTodosResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Pagination.TotalTodos)
	require.Len(t, got.Todos, 1)
	assert.Equal(t, "buy milk", got.Todos[0].Title)

	w = doJSON(r, http.MethodGet, "/api/todos?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/todos?sortBy=priority", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTodosPastTheEnd(t *testing.T) {
	r, mem := newTestRouter()
	mustSeed(t, mem,
		dom.Todo{Title: "a", DueDate: due("2025-01-01")},
		dom.Todo{Title: "b", DueDate: due("2025-01-02")},
		dom.Todo{Title: "c", DueDate: due("2025-01-03")},
	)

	w := doJSON(r, http.MethodGet, "/api/todos?page=9999&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Todos)
	assert.Equal(t, 3, got.Pagination.TotalTodos)
	assert.Equal(t, 1, got.Pagination.TotalPages)
	assert.False(t, got.Pagination.HasNextPage)
	assert.True(t, got.Pagination.HasPrevPage)
}

func TestUpdateTodo(t *testing.T) {
	r, mem := newTestRouter()
	created := mustSeed(t, mem, dom.Todo{Title: "T", Description: "keep", DueDate: due("2025-06-01")})[0]

	w := doJSON(r, http.MethodPut, "/api/todos/"+created.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Completed)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "keep", got.Description)
}

func TestUpdateTodoErrors(t *testing.T) {
	r, mem := newTestRouter()
	created := mustSeed(t, mem, dom.Todo{Title: "T", DueDate: due("2025-06-01")})[0]

	w := doJSON(r, http.MethodPut, "/api/todos/abc", `{"completed":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid todo ID", errMsg(t, w))

	w = doJSON(r, http.MethodPut, "/api/todos/"+primitive.NewObjectID().Hex(), `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Todo not found", errMsg(t, w))

	w = doJSON(r, http.MethodPut, "/api/todos/"+created.ID, `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title cannot be empty", errMsg(t, w))

	w = doJSON(r, http.MethodPut, "/api/todos/"+created.ID, `{"dueDate":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid due date format", errMsg(t, w))
}

func TestDeleteTodo(t *testing.T) {
	r, mem := newTestRouter()
	created := mustSeed(t, mem, dom.Todo{Title: "bye", DueDate: due("2025-06-01")})[0]

	w := doJSON(r, http.MethodDelete, "/api/todos/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.DeleteTodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Todo deleted successfully", got.Message)
	assert.Equal(t, "bye", got.Todo.Title)

	// Well-formed but absent vs malformed.
	w = doJSON(r, http.MethodDelete, "/api/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/todos/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid todo ID", errMsg(t, w))
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, "connected", got.Database)
	assert.NotEmpty(t, got.Timestamp)
}
