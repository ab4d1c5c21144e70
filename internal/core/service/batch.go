package service

import (
	"context"
	"tinyami/internal/core/domain"
	"tinyami/internal/core/port"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// UploadResult is the outcome of uploading one file.
type UploadResult struct {
	Path     string
	Response *domain.UploadResponse
	Err      error
}

// BatchUploader uploads many files while keeping at most a fixed number of uploads in
// flight.
type BatchUploader struct {
	uploader    port.ImageUploader
	concurrency int
}

func NewBatchUploader(uploader port.ImageUploader, concurrency int) *BatchUploader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &BatchUploader{uploader: uploader, concurrency: concurrency}
}

// Upload uploads every path and returns one result per path, in input order. A failed
// upload does not stop the others; cancelling ctx stops uploads that have not started.
func (b *BatchUploader) Upload(ctx context.Context, paths []string) []UploadResult {
	results := make([]UploadResult, len(paths))

	g := &errgroup.Group{}
	g.SetLimit(b.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			res, err := b.uploader.UploadImage(ctx, path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("upload failed")
				results[i].Err = err
				return nil
			}

			log.Debug().Str("path", path).Str("id", res.ID.String()).Msg("uploaded")
			results[i].Response = res
			return nil
		})
	}

	_ = g.Wait()

	return results
}
