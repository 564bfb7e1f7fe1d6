package errs

import (
	"net/http"
)

const (
	// CodeInvalidProjectID is returned when a :id path segment is not a UUID.
	CodeInvalidProjectID = "INVALID_PROJECT_ID"

	// CodeProjectNotFound is returned when a well-formed id matches no project.
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Only used for unknown routes. A missing project is a 400, see
// NewProjectNotFoundError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError for the rate limiter.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message: http.StatusText(http.StatusTooManyRequests),
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the real internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// NewInvalidProjectIDError is the 400 returned by the project ID gate.
func NewInvalidProjectIDError() *HTTPError {
	code := CodeInvalidProjectID
	return NewBadRequestError("Invalid project ID.", &code, nil)
}

// NewProjectNotFoundError is the 400 returned when no project has the given id.
func NewProjectNotFoundError() *HTTPError {
	code := CodeProjectNotFound
	return NewBadRequestError("Project not found.", &code, nil)
}
