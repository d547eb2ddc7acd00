package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/parkwarden/parkwarden/internal/infrastructure/auth"
	"github.com/parkwarden/parkwarden/internal/shared/constants"
	apperrors "github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/utils"
)

// TokenVerifier turns a bearer token into claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth sets the caller's user id and username on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("missing authorization token"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			authErr := apperrors.NewTokenInvalidError("access token")
			if errors.Is(err, jwt.ErrTokenExpired) {
				authErr = apperrors.NewTokenExpiredError("access token")
			}
			m.logger.Warnw("failed to verify token",
				"error", err,
				"client_ip", c.ClientIP(),
				"security_event", apperrors.IsSecurityEvent(authErr))
			utils.ErrorResponseWithError(c, authErr)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUsername, claims.Username)

		c.Next()
	}
}
