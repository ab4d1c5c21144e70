// Package tinyami is a client for the Tinyami image optimization API.
//
// Every method returns an error for every failure. Arguments rejected locally yield a
// *ValidationError before anything is sent, non-2xx responses yield a *HTTPError, and
// network failures are returned as reported by net/http.
package tinyami

import (
	"context"
	"fmt"
	"tinyami/internal/adapters/images"
	"tinyami/internal/adapters/transport"
)

// Client is bound to one API key and base URL. It is safe for concurrent use.
type Client struct {
	images *images.Service
}

// New creates a Client authenticating with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	s := &settings{
		cfg: transport.Config{
			APIKey:     apiKey,
			MaxRetries: DefaultMaxRetries,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics {
		observer, err := transport.NewPrometheusObserver(s.metricsNamespace, s.registerer)
		if err != nil {
			return nil, err
		}
		s.cfg.Observer = observer
	}

	t, err := transport.New(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("tinyami: %w", err)
	}

	return &Client{images: images.NewService(t)}, nil
}

// UploadImage uploads the local file at path.
func (c *Client) UploadImage(ctx context.Context, path string) (*UploadResponse, error) {
	return c.images.UploadImage(ctx, path)
}

// UploadImageFromURL has the service fetch and store the image at url.
func (c *Client) UploadImageFromURL(ctx context.Context, url string) (*UploadResponse, error) {
	return c.images.UploadImageFromURL(ctx, url)
}

// OptimizeImage requests an optimized rendition of an uploaded image. format is one of
// jpg, jpeg, png, webp or avif, case-insensitive, with an optional leading dot.
func (c *Client) OptimizeImage(ctx context.Context, imageID int64, format string) (*OptimizeResponse, error) {
	return c.images.OptimizeImage(ctx, imageID, format)
}

// GetImageInfo returns the processing status of an image.
func (c *Client) GetImageInfo(ctx context.Context, imageID int64) (*ImageStatus, error) {
	return c.images.GetImageInfo(ctx, imageID)
}

// DeleteImage deletes an uploaded image.
func (c *Client) DeleteImage(ctx context.Context, imageID int64) error {
	return c.images.DeleteImage(ctx, imageID)
}

// GetImagesList returns a page of uploaded images, the first 20 unless told otherwise.
func (c *Client) GetImagesList(ctx context.Context, opts ...ListOption) (*ImageList, error) {
	o := listOptions{page: images.DefaultPage, limit: images.DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return c.images.GetImagesList(ctx, o.page, o.limit)
}

// ConvertImage converts an image to another format, accepting the same values as
// OptimizeImage.
func (c *Client) ConvertImage(ctx context.Context, imageID int64, typ string) (*ConvertResult, error) {
	return c.images.ConvertImage(ctx, imageID, typ)
}

// ResizeImage resizes an image using method. A zero width or height is not sent.
func (c *Client) ResizeImage(ctx context.Context, imageID int64, method string, width, height int) (*ResizeResult, error) {
	return c.images.ResizeImage(ctx, imageID, method, width, height)
}

// GetImageFormats lists the formats generated for an image.
func (c *Client) GetImageFormats(ctx context.Context, imageID int64) (*FormatList, error) {
	return c.images.GetImageFormats(ctx, imageID)
}

// GetImageVariants lists the variants generated for an image.
func (c *Client) GetImageVariants(ctx context.Context, imageID int64) (*VariantList, error) {
	return c.images.GetImageVariants(ctx, imageID)
}

// DeleteImageFormat deletes one format of an image.
func (c *Client) DeleteImageFormat(ctx context.Context, imageID, formatID int64) error {
	return c.images.DeleteImageFormat(ctx, imageID, formatID)
}

// DeleteImageVariant deletes one variant of an image.
func (c *Client) DeleteImageVariant(ctx context.Context, imageID, variantID int64) error {
	return c.images.DeleteImageVariant(ctx, imageID, variantID)
}
