package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers that indicate a retryable condition.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// ClassifyStoreError maps a raw store error to an AppError.
// Errors that are already AppErrors are returned unchanged. Connectivity loss and
// timeouts become TransientStoreError; anything else becomes a generic internal
// error whose message does not carry the driver detail.
func ClassifyStoreError(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if IsTransientStore(err) {
		return NewTransientStoreError(message)
	}
	return NewInternalError(message)
}

// IsTransientStore reports whether err is a connectivity or timeout failure of the store.
func IsTransientStore(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlLockWaitTimeout || mysqlErr.Number == mysqlDeadlock
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "database is locked")
}
