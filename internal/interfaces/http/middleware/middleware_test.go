package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwarden/parkwarden/internal/infrastructure/auth"
	"github.com/parkwarden/parkwarden/internal/shared/constants"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAuthRouter(verifier TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(logger.NewNop()))
	r.GET("/whoami", NewAuthMiddleware(verifier, logger.NewNop()).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(constants.ContextKeyUserID),
			"username": c.GetString(constants.ContextKeyUsername),
		})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	svc := auth.NewJWTService("secret", "")
	valid, err := svc.Generate(7, "officer.lee", time.Hour)
	require.NoError(t, err)
	expired, err := svc.Generate(7, "officer.lee", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		status    int
		errorType string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, errorType: "unauthorized"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, errorType: "unauthorized"},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized, errorType: "token_invalid"},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusUnauthorized, errorType: "token_expired"},
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK},
	}

	r := newAuthRouter(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.errorType != "" {
				var body errorBody
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.errorType, body.Error.Type)
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.EqualValues(t, 7, body["user_id"])
			assert.Equal(t, "officer.lee", body["username"])
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newAuthRouter(auth.NewJWTService("secret", ""))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Len(t, w.Header().Get(constants.HeaderXRequestID), 36)
}

func TestRecovery_HidesPanic(t *testing.T) {
	r := newAuthRouter(auth.NewJWTService("secret", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
