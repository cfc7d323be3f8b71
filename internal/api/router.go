package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/app"
	iauth "github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/handlers"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	if cfg.Server.RateLimit.MaxRequests > 0 {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.MaxRequests, cfg.Server.RateLimit.Window))
	}

	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, cfg)
	registerMetricsRoutes(r, cfg)

	// Shared service wiring
	checker, err := authz.NewChecker(db)
	if err != nil {
		return nil, err
	}
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}

	login, err := iauth.NewLoginService(db, jwt)
	if err != nil {
		return nil, err
	}
	registerAuthRoutes(r, handlers.NewAuthHandler(login))

	requireAuth := middleware.Auth(jwt)

	userSvc, err := services.NewUserService(db, checker, audit, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	registerUserRoutes(r, requireAuth, handlers.NewUserHandler(userSvc))

	teamSvc, err := services.NewTeamService(db, checker, audit)
	if err != nil {
		return nil, err
	}
	registerTeamRoutes(r, requireAuth, handlers.NewTeamHandler(teamSvc))

	taskSvc, err := services.NewTaskService(db, checker, audit)
	if err != nil {
		return nil, err
	}
	registerTaskRoutes(r, requireAuth, handlers.NewTaskHandler(taskSvc))

	return r, nil
}
