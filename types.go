package tinyami

import (
	"errors"
	"time"
	"tinyami/internal/core/domain"
)

type (
	ID               = domain.ID
	Timestamp        = domain.Timestamp
	Status           = domain.Status
	ImageStatus      = domain.ImageStatus
	UploadResponse   = domain.UploadResponse
	OptimizeResponse = domain.OptimizeResponse
	OriginalImage    = domain.OriginalImage
	Format           = domain.Format
	Variant          = domain.Variant
	ImageList        = domain.ImageList
	ConvertResult    = domain.ConvertResult
	ResizeResult     = domain.ResizeResult
	FormatList       = domain.FormatList
	VariantList      = domain.VariantList
	ServiceError     = domain.ServiceError
	HTTPError        = domain.HTTPError
	ValidationError  = domain.ValidationError
)

const (
	StatusPending    = domain.StatusPending
	StatusProcessing = domain.StatusProcessing
	StatusCompleted  = domain.StatusCompleted
	StatusFailed     = domain.StatusFailed
)

var (
	ErrMissingAPIKey    = domain.ErrMissingAPIKey
	ErrFileNotFound     = domain.ErrFileNotFound
	ErrNotRegularFile   = domain.ErrNotRegularFile
	ErrInvalidFormat    = domain.ErrInvalidFormat
	ErrInvalidType      = domain.ErrInvalidType
	ErrProcessingFailed = domain.ErrProcessingFailed
)

func NewTimestamp(t time.Time) Timestamp {
	return domain.NewTimestamp(t)
}

// AsHTTPError returns the service error carried by err, if the remote service answered
// with a non-2xx status.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// AsValidationError returns the local validation failure carried by err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
