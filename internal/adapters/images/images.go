package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"tinyami/internal/adapters/file"
	"tinyami/internal/adapters/transport"
	"tinyami/internal/core/domain"
	"tinyami/internal/core/port"

	"github.com/rs/zerolog/log"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Service maps typed calls onto the Tinyami REST endpoints.
type Service struct {
	requester port.Requester
}

var (
	_ port.ImageUploader  = (*Service)(nil)
	_ port.ImageInspector = (*Service)(nil)
)

func NewService(requester port.Requester) *Service {
	return &Service{requester: requester}
}

type typeRequest struct {
	Type string `json:"type"`
}

type resizeRequest struct {
	Method string `json:"method"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// UploadImage streams the file at path to the upload endpoint. The file must exist
// before any request is made.
func (s *Service) UploadImage(ctx context.Context, path string) (*domain.UploadResponse, error) {
	if err := file.CheckRegular(path); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("uploading image")

	var out domain.UploadResponse
	err := s.requester.Do(ctx, port.Request{
		Operation: "upload_image",
		Method:    http.MethodPost,
		Path:      "/images/upload",
		Body:      transport.NewMultipartBody().File("file", path),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("upload image %s: %w", path, err)
	}

	return &out, nil
}

// UploadImageFromURL asks the service to fetch the image at imageURL.
func (s *Service) UploadImageFromURL(ctx context.Context, imageURL string) (*domain.UploadResponse, error) {
	var out domain.UploadResponse
	err := s.requester.Do(ctx, port.Request{
		Operation: "upload_image_from_url",
		Method:    http.MethodPost,
		Path:      "/images/upload",
		Body:      transport.NewMultipartBody().Field("image_url", imageURL),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("upload image from url: %w", err)
	}

	return &out, nil
}

// OptimizeImage requests an optimized rendition in format. The format is lower-cased, a
// leading dot is dropped, and anything outside domain.SupportedFormats is rejected with
// domain.ErrInvalidFormat.
func (s *Service) OptimizeImage(ctx context.Context, imageID int64, format string) (*domain.OptimizeResponse, error) {
	normalized, err := domain.ParseFormat("format", format, domain.ErrInvalidFormat)
	if err != nil {
		return nil, err
	}

	var out domain.OptimizeResponse
	err = s.requester.Do(ctx, port.Request{
		Operation: "optimize_image",
		Method:    http.MethodPost,
		Path:      imagePath(imageID, "optimize"),
		Body:      transport.JSONBody{Value: typeRequest{Type: normalized}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("optimize image %d: %w", imageID, err)
	}

	return &out, nil
}

func (s *Service) GetImageInfo(ctx context.Context, imageID int64) (*domain.ImageStatus, error) {
	var out domain.ImageStatus
	err := s.requester.Do(ctx, port.Request{
		Operation: "get_image_info",
		Method:    http.MethodGet,
		Path:      imagePath(imageID),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("get image %d: %w", imageID, err)
	}

	return &out, nil
}

func (s *Service) DeleteImage(ctx context.Context, imageID int64) error {
	err := s.requester.Do(ctx, port.Request{
		Operation: "delete_image",
		Method:    http.MethodDelete,
		Path:      imagePath(imageID),
	}, nil)
	if err != nil {
		return fmt.Errorf("delete image %d: %w", imageID, err)
	}

	return nil
}

// GetImagesList returns one page of uploaded images. Non-positive page or limit values
// fall back to DefaultPage and DefaultLimit.
func (s *Service) GetImagesList(ctx context.Context, page, limit int) (*domain.ImageList, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out domain.ImageList
	err := s.requester.Do(ctx, port.Request{
		Operation: "get_images_list",
		Method:    http.MethodGet,
		Path:      "/images",
		Query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return &out, nil
}

// ConvertImage creates a converted variant. typ is validated like an optimize format but
// rejected with domain.ErrInvalidType.
func (s *Service) ConvertImage(ctx context.Context, imageID int64, typ string) (*domain.ConvertResult, error) {
	normalized, err := domain.ParseFormat("type", typ, domain.ErrInvalidType)
	if err != nil {
		return nil, err
	}

	var out domain.ConvertResult
	err = s.requester.Do(ctx, port.Request{
		Operation: "convert_image",
		Method:    http.MethodPost,
		Path:      imagePath(imageID, "convert"),
		Body:      transport.JSONBody{Value: typeRequest{Type: normalized}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("convert image %d: %w", imageID, err)
	}

	return &out, nil
}

// ResizeImage creates a resized variant. A zero width or height is left out of the
// request.
func (s *Service) ResizeImage(ctx context.Context, imageID int64, method string, width, height int) (*domain.ResizeResult, error) {
	var out domain.ResizeResult
	err := s.requester.Do(ctx, port.Request{
		Operation: "resize_image",
		Method:    http.MethodPost,
		Path:      imagePath(imageID, "resize"),
		Body:      transport.JSONBody{Value: resizeRequest{Method: method, Width: width, Height: height}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("resize image %d: %w", imageID, err)
	}

	return &out, nil
}

func (s *Service) GetImageFormats(ctx context.Context, imageID int64) (*domain.FormatList, error) {
	var out domain.FormatList
	err := s.requester.Do(ctx, port.Request{
		Operation: "get_image_formats",
		Method:    http.MethodGet,
		Path:      imagePath(imageID, "formats"),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("get formats of image %d: %w", imageID, err)
	}

	return &out, nil
}

func (s *Service) GetImageVariants(ctx context.Context, imageID int64) (*domain.VariantList, error) {
	var out domain.VariantList
	err := s.requester.Do(ctx, port.Request{
		Operation: "get_image_variants",
		Method:    http.MethodGet,
		Path:      imagePath(imageID, "variants"),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("get variants of image %d: %w", imageID, err)
	}

	return &out, nil
}

func (s *Service) DeleteImageFormat(ctx context.Context, imageID, formatID int64) error {
	err := s.requester.Do(ctx, port.Request{
		Operation: "delete_image_format",
		Method:    http.MethodDelete,
		Path:      imagePath(imageID, "formats", strconv.FormatInt(formatID, 10)),
	}, nil)
	if err != nil {
		return fmt.Errorf("delete format %d of image %d: %w", formatID, imageID, err)
	}

	return nil
}

func (s *Service) DeleteImageVariant(ctx context.Context, imageID, variantID int64) error {
	err := s.requester.Do(ctx, port.Request{
		Operation: "delete_image_variant",
		Method:    http.MethodDelete,
		Path:      imagePath(imageID, "variants", strconv.FormatInt(variantID, 10)),
	}, nil)
	if err != nil {
		return fmt.Errorf("delete variant %d of image %d: %w", variantID, imageID, err)
	}

	return nil
}

func imagePath(imageID int64, segments ...string) string {
	p := "/images/" + strconv.FormatInt(imageID, 10)
	for _, s := range segments {
		p += "/" + s
	}
	return p
}
