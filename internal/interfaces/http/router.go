package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/infrastructure/config"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/middleware"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/routes"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(ctx, db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)

	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler:  r.hdlrs.ticketHandler,
		AuthMiddleware: r.authMiddleware,
		IssueLimiter:   r.issueLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
