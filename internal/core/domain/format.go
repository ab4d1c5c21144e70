package domain

import (
	"fmt"
	"slices"
	"strings"
)

// SupportedFormats lists the output encodings accepted by optimize and convert.
var SupportedFormats = []string{"jpg", "jpeg", "png", "webp", "avif"}

// NormalizeFormat lower-cases an output format and strips a single leading dot.
func NormalizeFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(format), ".")
}

// ParseFormat normalizes format and checks it against SupportedFormats. Rejections
// wrap sentinel, so callers can tell an optimize format from a convert type.
func ParseFormat(field, format string, sentinel error) (string, error) {
	normalized := NormalizeFormat(format)
	if !slices.Contains(SupportedFormats, normalized) {
		return "", &ValidationError{
			Field:      field,
			Value:      format,
			Normalized: normalized,
			Err:        fmt.Errorf("%w, must be one of: %s", sentinel, strings.Join(SupportedFormats, ", ")),
		}
	}
	return normalized, nil
}
