package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// TaskHandler exposes task lifecycle and responsibility endpoints.
type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Name     string `json:"name" validate:"required,max=256"`
	Content  string `json:"content"`
	Deadline string `json:"deadline" validate:"required"`
	Status   string `json:"status"`
}

type updateTaskRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=256"`
	Content  *string `json:"content"`
	Deadline *string `json:"deadline"`
	Status   *string `json:"status"`
}

type taskTeamsRequest struct {
	ResponsibleTeams []uint `json:"responsibleTeams" validate:"required,min=1"`
	IsAdd            bool   `json:"isAdd"`
}

// parseDeadline accepts RFC 3339 timestamps and bare dates.
func parseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// POST /task/create
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		response.Error(c, services.ErrInvalidTaskData)
		return
	}

	view, err := h.svc.Create(requestContext(c), callerEmail(c), services.TaskInput{
		Name:     req.Name,
		Content:  req.Content,
		Deadline: deadline,
		Status:   req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// PUT /task/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	update := services.TaskUpdate{
		Name:    req.Name,
		Content: req.Content,
		Status:  req.Status,
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			response.Error(c, services.ErrInvalidTaskData)
			return
		}
		update.Deadline = &deadline
	}

	view, err := h.svc.Update(requestContext(c), callerEmail(c), parseUintParam(c, "id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// PUT /task/:id/teams
func (h *TaskHandler) EditTeams(c *gin.Context) {
	var req taskTeamsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	view, err := h.svc.AddOrRemoveTeams(requestContext(c), callerEmail(c),
		parseUintParam(c, "id"), req.ResponsibleTeams, req.IsAdd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GET /task/:id
func (h *TaskHandler) Get(c *gin.Context) {
	view, err := h.svc.GetByID(requestContext(c), callerEmail(c), parseUintParam(c, "id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GET /task
func (h *TaskHandler) List(c *gin.Context) {
	views, err := h.svc.List(requestContext(c), callerEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// DELETE /task/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), callerEmail(c), parseUintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
