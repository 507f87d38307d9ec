// Package apperrors defines the application error taxonomy shared by the
// usecase and HTTP layers. Each error carries the HTTP status it maps to so
// the centralized responder never has to guess.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeUpstreamAsset ErrorType = "upstream_asset_error"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// AppError is an application error with an HTTP mapping
type AppError struct {
	Type    ErrorType
	Message string
	Code    int
	Fields  map[string]string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Code: http.StatusBadRequest}
}

// NewFieldValidationError carries per-field detail for schema failures
func NewFieldValidationError(message string, fields map[string]string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Code: http.StatusBadRequest, Fields: fields}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message, Code: http.StatusNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, Code: http.StatusConflict}
}

// NewDuplicateError is a uniqueness violation reported as 400, matching the
// historical API contract for parking and ICAO duplicates.
func NewDuplicateError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, Code: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message, Code: http.StatusUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message, Code: http.StatusForbidden}
}

// NewUpstreamAssetError covers asset-store upload failures that abort the
// operation before any entity mutation.
func NewUpstreamAssetError(message string) *AppError {
	return &AppError{Type: ErrorTypeUpstreamAsset, Message: message, Code: http.StatusInternalServerError}
}

func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Code: http.StatusInternalServerError}
}

// GetAppError extracts an AppError, or nil if err is not one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

func IsValidation(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

func IsConflict(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConflict
}
