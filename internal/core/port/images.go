package port

import (
	"context"
	"tinyami/internal/core/domain"
)

type ImageUploader interface {
	// UploadImage uploads the local file at path.
	UploadImage(ctx context.Context, path string) (*domain.UploadResponse, error)
}

type ImageInspector interface {
	// GetImageInfo returns the current processing snapshot of an image.
	GetImageInfo(ctx context.Context, imageID int64) (*domain.ImageStatus, error)
}
