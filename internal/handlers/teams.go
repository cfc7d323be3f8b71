package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// TeamHandler exposes team lifecycle and membership endpoints.
type TeamHandler struct {
	svc *services.TeamService
}

func NewTeamHandler(svc *services.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

type teamMembersRequest struct {
	UsersEmail []string `json:"usersEmail" validate:"required,min=1,dive,email"`
	IsAdd      bool     `json:"isAdd"`
}

// POST /team/create/:team_name
func (h *TeamHandler) Create(c *gin.Context) {
	team, err := h.svc.Create(requestContext(c), callerEmail(c), c.Param("team_name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, team)
}

// PUT /team/:id/users
func (h *TeamHandler) EditMembers(c *gin.Context) {
	var req teamMembersRequest
	if !bindAndValidate(c, &req) {
		return
	}

	view, err := h.svc.AddOrRemoveUsers(requestContext(c), callerEmail(c),
		parseUintParam(c, "id"), req.UsersEmail, req.IsAdd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GET /team/:id
func (h *TeamHandler) Get(c *gin.Context) {
	view, err := h.svc.GetByID(requestContext(c), callerEmail(c), parseUintParam(c, "id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GET /team
func (h *TeamHandler) List(c *gin.Context) {
	views, err := h.svc.List(requestContext(c), callerEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// PUT /team/:id/:new_name
func (h *TeamHandler) Rename(c *gin.Context) {
	team, err := h.svc.Rename(requestContext(c), callerEmail(c),
		parseUintParam(c, "id"), c.Param("new_name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, team)
}

// DELETE /team/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), callerEmail(c), parseUintParam(c, "id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
