package errors

import (
	"net/http"
)

// BadRequestWithDetails creates a 400 Bad Request error with details
func BadRequestWithDetails(code string, message string, details any) *AppError {
	return NewBadRequestError(code, message).WithDetails(details)
}

// NotFoundWithDetails creates a 404 Not Found error with details
func NotFoundWithDetails(code string, message string, details any) *AppError {
	return NewNotFoundError(code, message).WithDetails(details)
}

// ConflictWithDetails creates a 409 Conflict error with details
func ConflictWithDetails(code string, message string, details any) *AppError {
	return NewConflictError(code, message).WithDetails(details)
}

// BadGatewayWithDetails creates a 502 Bad Gateway error with details
func BadGatewayWithDetails(code string, message string, details any) *AppError {
	return NewBadGatewayError(code, message).WithDetails(details)
}

// FromError converts a standard error to an AppError.
// If the error is or wraps an AppError, that AppError is returned.
// Otherwise, it is wrapped as an internal server error without leaking
// the underlying message.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := As(err); ok {
		return appErr
	}

	return NewInternalServerError("INTERNAL_ERROR", "An unexpected error occurred")
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an AppError, returns "UNKNOWN_ERROR" if not an AppError
func GetErrorCode(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}
