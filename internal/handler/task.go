package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/msomdec/taskflow/internal/domain"
	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

// TaskHandler handles task CRUD HTTP requests. All routes require an
// authenticated user; tasks are scoped to that user.
type TaskHandler struct {
	tasks    *service.TaskService
	validate *validation.Validator
	dev      bool
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, validate *validation.Validator, dev bool) *TaskHandler {
	return &TaskHandler{tasks: tasks, validate: validate, dev: dev}
}

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Status      string     `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// HandleList returns the user's tasks, filtered by the query string.
// GET /api/tasks?search=&status=&priority=&limit=
// Response: 200 {"tasks":[...], "count":n}
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	q := r.URL.Query()
	filter := domain.TaskFilter{
		Search:   q.Get("search"),
		Status:   domain.TaskStatus(q.Get("status")),
		Priority: domain.TaskPriority(q.Get("priority")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	tasks, err := h.tasks.List(r.Context(), user.ID, filter)
	if err != nil {
		h.writeTaskError(w, err, "list tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": toTaskDTOs(tasks),
		"count": len(tasks),
	})
}

// HandleCreate creates a task for the user.
// POST /api/tasks
// Response: 201 {"message":..., "task":{...}}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req createTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if errs := h.validate.Check(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	task := &domain.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	}
	if err := h.tasks.Create(r.Context(), task); err != nil {
		h.writeTaskError(w, err, "create task")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    toTaskDTO(task),
	})
}

// HandleGet returns a single task.
// GET /api/tasks/{id}
// Response: 200 {"task":{...}} or 404
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	task, err := h.tasks.Get(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		h.writeTaskError(w, err, "get task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": toTaskDTO(task)})
}

// HandleUpdate applies a partial update to a task.
// PUT /api/tasks/{id}
// Response: 200 {"message":..., "task":{...}}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req updateTaskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if errs := h.validate.Check(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		update.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		update.Priority = &priority
	}

	task, err := h.tasks.Update(r.Context(), r.PathValue("id"), user.ID, update)
	if err != nil {
		h.writeTaskError(w, err, "update task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    toTaskDTO(task),
	})
}

// HandleDelete removes a task.
// DELETE /api/tasks/{id}
// Response: 200 {"message":...} or 404
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	if err := h.tasks.Delete(r.Context(), r.PathValue("id"), user.ID); err != nil {
		h.writeTaskError(w, err, "delete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// writeTaskError maps service errors onto HTTP responses shared by all task
// endpoints.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid task input.")
	case errors.Is(err, domain.ErrUnavailable):
		writeUnavailable(w)
	default:
		slog.Error(op, "error", err)
		writeInternal(w, h.dev, err)
	}
}
