package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	dom "todoman/internal/domain"
	"todoman/internal/dto"
	"todoman/internal/page"
	"todoman/internal/query"
	"todoman/internal/repo"
	"todoman/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// List godoc
// @Summary      List todos with filtering, sorting and pagination
// @Tags         todos
// @Produce      json
// @Param        search  query  string  false  "Substring match against title/description"
// @Param        status  query  string  false  "all | completed | incomplete"
// @Param        page    query  int     false  "Page number (>=1)"
// @Param        limit   query  int     false  "Page size (1-50)"
// @Param        sortBy  query  string  false  "dueDate | createdAt | title"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	f, err := query.ParseFilter(c.Query("search"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	srt, err := query.ParseSort(c.Query("sortBy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := page.Normalize(intQuery(c, "page", 1), intQuery(c, "limit", page.DefaultLimit))

	todos, meta, err := h.svc.List(c.Request.Context(), f, srt, w)
	if err != nil {
		h.fail(c, err, "Failed to fetch todos")
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{
		Todos:      dto.FromTodos(todos),
		Pagination: meta,
	})
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description, req.DueDate.Ptr())
	if err != nil {
		h.fail(c, err, "Failed to create todo")
		return
	}
	c.JSON(http.StatusCreated, dto.FromTodo(t))
}

// Update godoc
// @Summary      Partially update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID (24 hex chars)"
// @Param        body  body      dto.UpdateTodoRequest  true  "Fields to change"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := repo.Patch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		if req.DueDate.Ptr() == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date format"})
			return
		}
		patch.DueDate = req.DueDate.Ptr()
	}

	t, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err, "Failed to update todo")
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID (24 hex chars)"
// @Success      200  {object}  dto.DeleteTodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	t, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete todo")
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTodoResponse{
		Message: "Todo deleted successfully",
		Todo:    dto.FromTodo(t),
	})
}

// fail maps service errors to HTTP responses. Unclassified errors are
// attached to the gin context so the request logger records them.
func (h *TodoHandler) fail(c *gin.Context, err error, fallback string) {
	var ve *dom.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	case errors.Is(err, dom.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID"})
	case errors.Is(err, dom.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// HealthHandler reports process and store health, independent of the
// data path.
type HealthHandler struct {
	svc   *service.TodoService
	start time.Time
}

func NewHealthHandler(svc *service.TodoService) *HealthHandler {
	return &HealthHandler{svc: svc, start: time.Now()}
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	db := "connected"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ping(ctx); err != nil {
		db = "disconnected"
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.start).Seconds(),
		Database:  db,
	})
}
