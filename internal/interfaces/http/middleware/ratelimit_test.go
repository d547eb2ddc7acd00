package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/parkwarden/parkwarden/internal/infrastructure/ratelimit"
	"github.com/parkwarden/parkwarden/internal/shared/constants"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type mockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, config ratelimit.Config) (bool, error)
	keys      []string
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, config ratelimit.Config) (bool, error) {
	m.keys = append(m.keys, key)
	return m.AllowFunc(ctx, key, config)
}

func (m *mockRateLimiter) Count(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}

func (m *mockRateLimiter) Reset(context.Context, string) error {
	return nil
}

func newLimitedRouter(limiter ratelimit.RateLimiter, userID uint) *gin.Engine {
	r := gin.New()
	r.POST("/tickets",
		func(c *gin.Context) {
			if userID != 0 {
				c.Set(constants.ContextKeyUserID, userID)
			}
			c.Next()
		},
		NewCallerRateLimiter(limiter, ratelimit.Config{RequestsPerMinute: 30}, logger.NewNop()).Limit("tickets.create"),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)
	return r
}

func TestCallerRateLimiter(t *testing.T) {
	tests := []struct {
		name   string
		allow  bool
		err    error
		userID uint
		status int
		calls  int
	}{
		{name: "allowed", allow: true, userID: 7, status: http.StatusCreated, calls: 1},
		{name: "denied", allow: false, userID: 7, status: http.StatusTooManyRequests, calls: 1},
		{name: "backend failure fails open", err: errors.New("redis down"), userID: 7, status: http.StatusCreated, calls: 1},
		{name: "anonymous request is not counted", userID: 0, status: http.StatusCreated, calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &mockRateLimiter{
				AllowFunc: func(context.Context, string, ratelimit.Config) (bool, error) {
					return tt.allow, tt.err
				},
			}

			w := httptest.NewRecorder()
			newLimitedRouter(limiter, tt.userID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tickets", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Len(t, limiter.keys, tt.calls)
			if tt.calls > 0 {
				assert.Equal(t, "tickets.create:user:7", limiter.keys[0])
			}
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "60", w.Header().Get("Retry-After"))
			}
		})
	}
}
