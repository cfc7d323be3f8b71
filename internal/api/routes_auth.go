package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/handlers"
)

func registerAuthRoutes(r *gin.Engine, handler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", handler.Login)
	}
}
