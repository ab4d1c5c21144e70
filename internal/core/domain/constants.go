package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrMissingAPIKey    = errors.New("missing api key")
	ErrFileNotFound     = errors.New("file not found")
	ErrNotRegularFile   = errors.New("not a regular file")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidType      = errors.New("invalid type")
	ErrProcessingFailed = errors.New("image processing failed")
)

// DefaultErrorMessage is used when an error response carries neither message nor detail.
const DefaultErrorMessage = "An error occurred"

// ServiceError is the normalized form of a non-2xx response.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details holds the raw response body.
	Details []byte `json:"details,omitempty"`
}

// HTTPError is returned when the remote service answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	ServiceError
}

func NewHTTPError(statusCode int, message string, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		ServiceError: ServiceError{
			Code:    strconv.Itoa(statusCode),
			Message: message,
			Details: body,
		},
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("tinyami http error %s: %s", e.Code, e.Message)
}

// ValidationError is returned before any request is sent when an argument is rejected locally.
type ValidationError struct {
	Field string
	// Value is the argument as given by the caller.
	Value string
	// Normalized is the value after normalization, if any was applied.
	Normalized string
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Normalized != "" && e.Normalized != e.Value {
		return fmt.Sprintf("%s %q (normalized %q): %v", e.Field, e.Value, e.Normalized, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
