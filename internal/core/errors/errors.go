package errors

import "errors"

const (
	HttpInternalError     = "internal_error"
	HttpInvalidJsonError  = "invalid_json"
	HttpValidationError   = "validation_failed"
	HttpNotFoundError     = "not_found"
	HttpUnauthorizedError = "not_authorized"
	HttpUpstreamError     = "upstream_failed"
)

// Sentinel errors classifying service failures. Handlers map them to HTTP
// status codes with errors.Is; anything unmatched is a 500.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrUpstream     = errors.New("upstream failure")
)

// ErrorResponse is the error response body for all API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
