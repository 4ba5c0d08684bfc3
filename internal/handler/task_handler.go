package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"teamdesk/internal/model"
	"teamdesk/internal/service"
	"teamdesk/internal/taskview"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRequest is the body of task create and update. id, _id, createdBy and
// the timestamps are accepted so clients can send back what they read, but
// they are never stored.
type TaskRequest struct {
	ID          string          `json:"id,omitempty"`
	LegacyID    string          `json:"_id,omitempty"`
	Title       *string         `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string         `json:"description,omitempty"`
	Deadline    *string         `json:"deadline,omitempty"`
	Priority    *string         `json:"priority,omitempty" validate:"omitempty,oneof=High Medium Low"`
	Category    *string         `json:"category,omitempty"`
	Completed   *bool           `json:"completed,omitempty"`
	AssignedTo  *string         `json:"assignedTo,omitempty"`
	DocLink     *string         `json:"docLink,omitempty" validate:"omitempty,max=2048"`
	File        *string         `json:"file,omitempty"`
	Revision    uint            `json:"revision,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty" swaggerignore:"true"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty" swaggerignore:"true"`
	UpdatedAt   json.RawMessage `json:"updatedAt,omitempty" swaggerignore:"true"`
}

// onlyCompleted reports whether the body is a bare completion update.
func (r *TaskRequest) onlyCompleted() bool {
	return r.Completed != nil &&
		r.Title == nil && r.Description == nil && r.Deadline == nil &&
		r.Priority == nil && r.Category == nil && r.AssignedTo == nil &&
		r.DocLink == nil && r.File == nil
}

func (r *TaskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		Deadline:    deref(r.Deadline),
		Priority:    model.Priority(deref(r.Priority)),
		Category:    model.Category(deref(r.Category)),
		Completed:   r.Completed != nil && *r.Completed,
		AssignedTo:  deref(r.AssignedTo),
		DocLink:     deref(r.DocLink),
		File:        deref(r.File),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListTasks godoc
// @Summary List tasks
// @Description Newest first. view selects a board view: all (open tasks), completed, invoices, or a category name.
// @Tags tasks
// @Produce json
// @Security SessionToken
// @Param view query string false "Board view"
// @Success 200 {array} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()
	view := c.QueryParam("view")
	if view == "" {
		tasks, err := h.taskService.List(ctx)
		if err != nil {
			return respondError(err)
		}
		return c.JSON(http.StatusOK, tasks)
	}

	filter, err := taskview.ParseFilter(view)
	if err != nil {
		return respondError(err)
	}
	tasks, err := h.taskService.ListView(ctx, filter)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body TaskRequest true "Task"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req TaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), session, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update task
// @Description A body holding only completed updates that field alone; any other body replaces the task. A non-zero revision must match the stored one.
// @Tags tasks
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path string true "Task ID"
// @Param request body TaskRequest true "Task"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req TaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := checkBodyID(id, req.ID, req.LegacyID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var task *model.Task
	if req.onlyCompleted() {
		task, err = h.taskService.SetCompleted(ctx, id, *req.Completed)
	} else {
		task, err = h.taskService.Update(ctx, id, req.input(), req.Revision)
	}
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// ToggleTask godoc
// @Summary Toggle task completion
// @Tags tasks
// @Produce json
// @Security SessionToken
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/toggle [patch]
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.taskService.ToggleCompletion(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Security SessionToken
// @Param id path string true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.taskService.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "task deleted"})
}
