package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	domainaudit "github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/audit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/auth"
	"github.com/parkwarden/parkwarden/internal/infrastructure/cache"
	"github.com/parkwarden/parkwarden/internal/infrastructure/config"
	"github.com/parkwarden/parkwarden/internal/infrastructure/permission"
	"github.com/parkwarden/parkwarden/internal/infrastructure/schema"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/middleware"
	shareddb "github.com/parkwarden/parkwarden/internal/shared/db"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers, wires them together and releases them in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	probe     *schema.VersionProbe
	txManager *shareddb.TransactionManager
	enforcer  *permission.Enforcer
	settings  *cache.PrinterSettingsProvider

	// Audit sinks; rabbitSink is nil when publishing is disabled
	auditSink  domainaudit.Sink
	rabbitSink *audit.RabbitSink

	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware
	// issueLimiter is nil when redis is unavailable or the limit is disabled
	issueLimiter *middleware.CallerRateLimiter

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers
}

// NewContainer wires every component. The schema version is read here so a
// database that was never migrated fails startup instead of the first request.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - schema probe, Redis, casbin, repositories
	if err := c.initInfrastructure(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Audit - gorm table and RabbitMQ publisher
	if err := c.initAudit(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 3: Tickets - use cases, handlers, middlewares
	if err := c.initTickets(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

// Shutdown releases connections opened by the container. The database is
// owned by the caller.
func (c *Container) Shutdown() {
	if c.rabbitSink != nil {
		if err := c.rabbitSink.Close(); err != nil {
			c.log.Warnw("failed to close audit publisher", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
