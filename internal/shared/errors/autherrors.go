package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Identity-specific error types
const (
	ErrorTypeTokenExpired ErrorType = "token_expired"
	ErrorTypeTokenInvalid ErrorType = "token_invalid"
)

// AuthError represents identity verification errors with security context
type AuthError struct {
	*AppError
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewTokenExpiredError creates an error for expired tokens
func NewTokenExpiredError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: fmt.Sprintf("%s has expired", tokenType),
			Code:    http.StatusUnauthorized,
		},
	}
}

// NewTokenInvalidError creates an error for invalid tokens
func NewTokenInvalidError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: fmt.Sprintf("Invalid %s", tokenType),
			Code:    http.StatusUnauthorized,
			Details: "Token is invalid or has been revoked",
		},
		SecurityEvent: true,
	}
}

// GetAuthError extracts AuthError from error chain
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.SecurityEvent
	}
	return false
}
