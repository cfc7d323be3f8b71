package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/handlers"
)

func registerUserRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, handler *handlers.UserHandler) {
	users := r.Group("/user")
	users.Use(requireAuth)
	{
		users.POST("/create", handler.Create)
		users.GET("/search", handler.Search)
		users.GET("/:email", handler.Get)
		users.PUT("/update", handler.Update)
		users.DELETE("/:email", handler.Delete)
	}
}
