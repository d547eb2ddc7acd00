package middleware

import (
	"errors"
	"net"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parkwarden/parkwarden/internal/shared/constants"
	apperrors "github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/utils"
)

// Recovery turns a handler panic into a generic 500. The panic value and
// stack are logged, never returned.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if isBrokenConnection(recovered) {
			log.Warnw("connection broken during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", recovered)
			c.Abort()
			return
		}

		requestID, _ := c.Get(constants.ContextKeyRequestID)
		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", requestID,
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.ErrorResponseWithError(c, apperrors.NewInternalError("Internal server error occurred"))
		c.Abort()
	})
}

func isBrokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var syscallErr *os.SyscallError
	if !errors.As(opErr.Err, &syscallErr) {
		return false
	}
	msg := strings.ToLower(syscallErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
