package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkwarden/parkwarden/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// retryAfterSeconds is advertised on transient store failures.
const retryAfterSeconds = "2"

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// CreatedResponse sends a created response
func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: "Resource created successfully",
	}
	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusCreated, response)
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    "error",
			Message: message,
		},
	})
}

// ErrorResponseWithError sends an error response based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		// Non-AppError details never leave the process.
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(errors.ErrorTypeInternal),
				Message: "Internal server error occurred",
			},
		})
		return
	}

	if appErr.Retryable {
		c.Header("Retry-After", retryAfterSeconds)
	}

	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:      string(appErr.Type),
			Message:   appErr.Message,
			Details:   appErr.Details,
			Retryable: appErr.Retryable,
		},
	})
}

