package api

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/handlers"
)

func registerTeamRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, handler *handlers.TeamHandler) {
	teams := r.Group("/team")
	teams.Use(requireAuth)
	{
		teams.POST("/create/:team_name", handler.Create)
		teams.GET("", handler.List)
		teams.GET("/:id", handler.Get)
		teams.PUT("/:id/users", handler.EditMembers)
		teams.PUT("/:id/:new_name", handler.Rename)
		teams.DELETE("/:id", handler.Delete)
	}
}
