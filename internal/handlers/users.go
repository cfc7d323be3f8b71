package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// UserHandler exposes account management endpoints.
type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Firstname string `json:"firstname" validate:"required,max=128"`
	Surname   string `json:"surname" validate:"required,max=128"`
	Password  string `json:"password" validate:"required,min=4"`
	Role      string `json:"role" validate:"required"`
}

type updateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Firstname *string `json:"firstname" validate:"omitempty,max=128"`
	Surname   *string `json:"surname" validate:"omitempty,max=128"`
	Password  *string `json:"password" validate:"omitempty,min=4"`
	Role      *string `json:"role"`
}

// POST /user/create
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		response.Error(c, errors.NewBadRequest("role must be ADMIN or USER"))
		return
	}

	user, err := h.svc.Create(requestContext(c), callerEmail(c), services.CreateUserInput{
		Email:     req.Email,
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GET /user/:email
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(requestContext(c), callerEmail(c), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// PUT /user/update
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.UpdateUserInput{
		Email:     req.Email,
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Password:  req.Password,
	}
	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			response.Error(c, errors.NewBadRequest("role must be ADMIN or USER"))
			return
		}
		input.Role = &role
	}

	user, err := h.svc.Update(requestContext(c), callerEmail(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /user/:email
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), callerEmail(c), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /user/search?firstname=&surname=&role=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.svc.Search(requestContext(c), callerEmail(c), services.SearchUsersInput{
		Firstname: c.Query("firstname"),
		Surname:   c.Query("surname"),
		Role:      c.Query("role"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}
