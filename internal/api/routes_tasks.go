package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/handlers"
)

func registerTaskRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, handler *handlers.TaskHandler) {
	tasks := r.Group("/task")
	tasks.Use(requireAuth)
	{
		tasks.POST("/create", handler.Create)
		tasks.GET("", handler.List)
		tasks.GET("/:id", handler.Get)
		tasks.PUT("/:id/teams", handler.EditTeams)
		tasks.PUT("/:id", handler.Update)
		tasks.DELETE("/:id", handler.Delete)
	}
}
