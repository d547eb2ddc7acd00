package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/version"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db     *gorm.DB
	probe  domainschema.Probe
	logger logger.Interface
}

func NewHealthHandler(db *gorm.DB, probe domainschema.Probe, logger logger.Interface) *HealthHandler {
	return &HealthHandler{db: db, probe: probe, logger: logger}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "parkwarden",
			"version": version.String(),
		})
		return
	}

	body := gin.H{
		"status":  "healthy",
		"service": "parkwarden",
		"version": version.String(),
	}
	if caps, err := h.probe.Capabilities(ctx); err == nil {
		body["schema_version"] = caps.Version
		body["schema"] = caps.String()
	}
	c.JSON(http.StatusOK, body)
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
