// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the BCR API.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: Carries a public error Name, a client-safe Message and optional Details.
  - Taxonomy: One constructor per failure kind (NotFoundError, InsufficientAccessError,
    InvalidTokenError, ValidationError, ...).
  - Mapping: Every kind owns its HTTP status code; [respond.Error] is the only
    place that turns an AppError into a response.

Errors that are not an [AppError] are treated as unexpected faults (HTTP 500).
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Names

// Public error names written to the "name" field of the error envelope.
const (
	NameNotFound           = "NotFoundError"
	NameInsufficientAccess = "InsufficientAccessError"
	NameInvalidToken       = "InvalidTokenError"
	NameValidation         = "ValidationError"
	NameEmailAlreadyTaken  = "EmailAlreadyTakenError"
	NameMethodNotAllowed   = "MethodNotAllowedError"
	NameGeneric            = "Error"
)

// AppError is the canonical error type for the BCR API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Name is the public error kind (e.g. "NotFoundError").
	Name string
	// Message is a human-readable description safe to return to the client.
	Message string
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int
	// Cause is the underlying error, used for server-side logging only.
	Cause error
	// Details holds structured context. Nil is rendered as JSON null.
	Details any
}

// Location is the {method, url} detail carried by routing-adjacent NotFound errors.
type Location struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] carrying {method, url} details.
//
// Example:
//
//	apperr.NotFound("GET", "/v2/cars") // "Cannot find GET /v2/cars!"
func NotFound(method, url string) *AppError {
	return &AppError{
		Name:       NameNotFound,
		Message:    fmt.Sprintf("Cannot find %s %s!", method, url),
		HTTPStatus: http.StatusNotFound,
		Details:    Location{Method: method, URL: url},
	}
}

// ResourceNotFound creates a 404 [AppError] for a named resource without details.
func ResourceNotFound(resource string) *AppError {
	return &AppError{
		Name:       NameNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// InsufficientAccess creates a 401 [AppError] for credentials that do not grant access.
// The message must never contain the submitted password or the stored hash.
func InsufficientAccess(msg string) *AppError {
	return &AppError{
		Name:       NameInsufficientAccess,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a 401 [AppError] for a token that fails verification.
func InvalidToken(cause error) *AppError {
	return &AppError{
		Name:       NameInvalidToken,
		Message:    "Token is invalid or malformed",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// ValidationError creates a 422 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appErr := &AppError{
		Name:       NameValidation,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
	if len(details) > 0 {
		appErr.Details = details
	}
	return appErr
}

// EmailAlreadyTaken creates a 422 [AppError] for a duplicate registration.
func EmailAlreadyTaken(email string) *AppError {
	return &AppError{
		Name:       NameEmailAlreadyTaken,
		Message:    fmt.Sprintf("%s is already taken!", email),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// MethodNotAllowed creates a 405 [AppError] for a known route hit with the wrong verb.
func MethodNotAllowed(method, url string) *AppError {
	return &AppError{
		Name:       NameMethodNotAllowed,
		Message:    fmt.Sprintf("Method %s is not allowed on %s", method, url),
		HTTPStatus: http.StatusMethodNotAllowed,
		Details:    Location{Method: method, URL: url},
	}
}

// # Server Errors (5xx)

// InvalidInput creates a 500 [AppError] for request input that the login
// protocol cannot act on (missing email or password).
// The login contract has no 4xx input-validation outcome, so this maps to 500.
func InvalidInput(msg string) *AppError {
	return &AppError{
		Name:       NameValidation,
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Name:       NameGeneric,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasName reports whether err carries an [*AppError] with the given public name.
func HasName(err error, name string) bool {
	ae := As(err)
	return ae != nil && ae.Name == name
}
