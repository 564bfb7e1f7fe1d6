// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP layer is expected to be an
// *HTTPError (or something the global error handler can turn into one),
// so clients always receive the same JSON shape:
//
//	{ "error": "Project not found." }
//
// Field-level validation failures additionally carry an "errors" list.
package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "title", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "title").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// Only Message and Errors are serialized; Code and Status drive logging
// and the response status line.
type HTTPError struct {
	// Code is a machine-friendly error code (e.g. "PROJECT_NOT_FOUND").
	Code string `json:"-"`

	// Message is the human-friendly message, sent as the "error" field.
	Message string `json:"error"`

	// Status is the HTTP status code to respond with.
	Status int `json:"-"`

	// Errors holds field-level validation errors, typically for request bodies.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// Two HTTPErrors match when they share the same Code, so callers can do
//
//	errors.Is(err, errs.NewProjectNotFoundError())
//
// without caring about the pointer identity.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
