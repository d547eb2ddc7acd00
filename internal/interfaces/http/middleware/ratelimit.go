package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parkwarden/parkwarden/internal/infrastructure/ratelimit"
	"github.com/parkwarden/parkwarden/internal/shared/constants"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/utils"
)

// CallerRateLimiter caps requests per authenticated caller. It must run after
// RequireAuth. When the limiter backend fails, requests are let through.
type CallerRateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.Config
	logger  logger.Interface
}

func NewCallerRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.Config, logger logger.Interface) *CallerRateLimiter {
	return &CallerRateLimiter{
		limiter: limiter,
		config:  config,
		logger:  logger,
	}
}

// Limit returns a middleware that counts requests under scope per caller.
func (m *CallerRateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(constants.ContextKeyUserID)
		if userID == 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:user:%d", scope, userID)
		allowed, err := m.limiter.Allow(c.Request.Context(), key, m.config)
		if err != nil {
			m.logger.Warnw("rate limit check failed, allowing request",
				"error", err,
				"scope", scope,
				"user_id", userID,
			)
			c.Next()
			return
		}

		if m.config.RequestsPerMinute > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(m.config.RequestsPerMinute))
		}

		if !allowed {
			m.logger.Infow("rate limit exceeded", "scope", scope, "user_id", userID)
			c.Header("Retry-After", "60")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
