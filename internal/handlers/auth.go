package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/pkg/metrics"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// AuthHandler manages the credential login flow.
type AuthHandler struct {
	login *iauth.LoginService
}

func NewAuthHandler(login *iauth.LoginService) *AuthHandler {
	return &AuthHandler{login: login}
}

// Missing fields are reported by the login service so the message stays the
// same whether the field is absent or blank.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.login.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusCreated, tokenResponse{AccessToken: token})
}
