package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/internal/application"
	"github.com/Gitsandu/taskmanagementBackend/internal/interface/middleware"
	"github.com/Gitsandu/taskmanagementBackend/pkg/response"
	"github.com/Gitsandu/taskmanagementBackend/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,notblank"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" binding:"omitempty,isodate"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	Status      string `json:"status" binding:"omitempty,taskstatus"`
}

// updateTaskRequest has no owner field; an owner in the payload is dropped by the decoder.
type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" binding:"omitempty,isodate"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	Status      string `json:"status" binding:"omitempty,taskstatus"`
}

// taskID validates the :id path param before any store access.
func taskID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid task ID", map[string]string{"id": "must be a valid UUID"})
		return "", false
	}
	return id.String(), true
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	task, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, task, "task created", nil)
}

// List GET /api/tasks?status=&search=&sortBy=field:dir
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), application.ListTasksInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", gin.H{"count": len(tasks)})
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.Svc.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, task, "task", nil)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	// an empty body only refreshes updatedAt
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	task, err := h.Svc.Update(c.Request.Context(), id, middleware.UserID(c), application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, task, "task updated", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "task removed", nil)
}
