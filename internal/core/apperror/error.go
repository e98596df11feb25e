// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by failure class
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Transient errors (retryable: deadlock abort, lock-wait timeout)
	CodeTransient = "TRANSIENT_ERROR"

	// Validation errors (400)
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInvalidMovementKind = "INVALID_MOVEMENT_KIND"

	// Business rule violations (422)
	CodeInvalidState           = "INVALID_STATE"
	CodeEmptyOrder             = "EMPTY_ORDER"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInsufficientAvailable  = "INSUFFICIENT_AVAILABLE_STOCK"
	CodeExcessReturn           = "EXCESS_RETURN"
	CodeNoWarehouseConfigured  = "NO_WAREHOUSE_CONFIGURED"
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidQuantity is returned for zero or negative movement quantities.
func NewInvalidQuantity(quantity int64) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    "quantity must be a positive integer",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"quantity": quantity},
	}
}

// NewInvalidMovementKind is returned for movement kinds outside the known set.
func NewInvalidMovementKind(kind string) *AppError {
	return &AppError{
		Code:       CodeInvalidMovementKind,
		Message:    "unknown movement kind",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"kind": kind},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidState is returned when an order operation is not allowed
// from the order's current lifecycle state.
func NewInvalidState(current, operation string) *AppError {
	return &AppError{
		Code:       CodeInvalidState,
		Message:    fmt.Sprintf("operation %q is not allowed in state %q", operation, current),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"state": current, "operation": operation},
	}
}

// NewEmptyOrder is returned when confirming or returning an order without items.
func NewEmptyOrder(orderCode string) *AppError {
	return &AppError{
		Code:       CodeEmptyOrder,
		Message:    "order has no line items",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"code": orderCode},
	}
}

// NewInsufficientStock is returned when owned stock cannot cover an
// outflow or downward adjustment.
func NewInsufficientStock(productID string, requested, owned, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"owned":      owned,
			"available":  available,
		},
	}
}

// NewInsufficientAvailable is returned when available stock cannot cover a rental.
func NewInsufficientAvailable(productID string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientAvailable,
		Message:    "insufficient available stock for rental",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewExcessReturn is returned when a return exceeds the quantity currently rented.
func NewExcessReturn(productID string, requested, rented int64) *AppError {
	return &AppError{
		Code:       CodeExcessReturn,
		Message:    "returned quantity exceeds rented quantity",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"rented":     rented,
		},
	}
}

// NewNoWarehouseConfigured is returned when a movement needs a default
// warehouse and none exists.
func NewNoWarehouseConfigured() *AppError {
	return &AppError{
		Code:       CodeNoWarehouseConfigured,
		Message:    "no warehouse configured",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewTransient marks a retryable storage failure (deadlock, lock timeout).
func NewTransient(err error) *AppError {
	return &AppError{
		Code:       CodeTransient,
		Message:    "Operation aborted by the storage layer. Safe to retry.",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode checks the AppError code in the error chain.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsTransient checks if the whole operation is safe to retry.
func IsTransient(err error) bool {
	return HasCode(err, CodeTransient)
}
