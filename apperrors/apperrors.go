// Package apperrors provides the structured error values returned by the
// service layer. Controllers translate them into the uniform HTTP error body
// without ever leaking store internals to the client.
package apperrors

import "net/http"

// AppError carries an error code, a client-safe message, the HTTP status to
// respond with, and an optional internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal cause for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status wrapping an
// internal cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// ValidationError aggregates per-field validation failures so a caller sees
// every invalid field at once rather than the first one hit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation failed" }

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Category errors. Conflict-class failures respond with 400 to match the
// public API surface.
var (
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory   = &AppError{Code: "DUPLICATE_CATEGORY", Message: "Category with this name already exists", StatusCode: http.StatusBadRequest}
	ErrCategoryHasChildren = &AppError{Code: "CATEGORY_HAS_CHILDREN", Message: "Cannot delete category with subcategories. Delete subcategories first.", StatusCode: http.StatusBadRequest}
	ErrCategoryCycle       = &AppError{Code: "CATEGORY_CYCLE", Message: "Category cannot be moved under one of its own descendants", StatusCode: http.StatusBadRequest}
)

// Product errors.
var (
	ErrProductNotFound = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatus   = &AppError{Code: "INVALID_STATUS", Message: "Status must be 'pending', 'approved', or 'rejected'", StatusCode: http.StatusBadRequest}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)
