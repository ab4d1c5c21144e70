package images

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"tinyami/internal/adapters/transport"
	"tinyami/internal/core/domain"
	"tinyami/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Do(ctx context.Context, req port.Request, out any) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func (m *MockRequester) lastRequest(t *testing.T) port.Request {
	t.Helper()
	require.NotEmpty(t, m.Calls)
	req, ok := m.Calls[len(m.Calls)-1].Arguments.Get(1).(port.Request)
	require.True(t, ok)
	return req
}

func decodeJSONBody(t *testing.T, body port.Body) map[string]any {
	t.Helper()
	_, ok := body.(transport.JSONBody)
	require.True(t, ok, "expected a JSON body, got %T", body)

	r, contentType, err := body.Open()
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func readMultipartBody(t *testing.T, body port.Body) map[string]string {
	t.Helper()
	_, ok := body.(*transport.MultipartBody)
	require.True(t, ok, "expected a multipart body, got %T", body)

	r, contentType, err := body.Open()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	parts := map[string]string{}
	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		parts[part.FormName()] = string(data)
	}
	return parts
}

func TestService_Requests(t *testing.T) {
	tests := []struct {
		name       string
		call       func(s *Service) error
		wantOp     string
		wantMethod string
		wantPath   string
		wantQuery  url.Values
		wantJSON   map[string]any
		wantNoBody bool
	}{
		{
			name: "optimize",
			call: func(s *Service) error {
				_, err := s.OptimizeImage(t.Context(), 7, ".WEBP")
				return err
			},
			wantOp:     "optimize_image",
			wantMethod: http.MethodPost,
			wantPath:   "/images/7/optimize",
			wantJSON:   map[string]any{"type": "webp"},
		},
		{
			name: "get info",
			call: func(s *Service) error {
				_, err := s.GetImageInfo(t.Context(), 7)
				return err
			},
			wantOp:     "get_image_info",
			wantMethod: http.MethodGet,
			wantPath:   "/images/7",
			wantNoBody: true,
		},
		{
			name: "delete",
			call: func(s *Service) error {
				return s.DeleteImage(t.Context(), 7)
			},
			wantOp:     "delete_image",
			wantMethod: http.MethodDelete,
			wantPath:   "/images/7",
			wantNoBody: true,
		},
		{
			name: "list defaults",
			call: func(s *Service) error {
				_, err := s.GetImagesList(t.Context(), 0, 0)
				return err
			},
			wantOp:     "get_images_list",
			wantMethod: http.MethodGet,
			wantPath:   "/images",
			wantQuery:  url.Values{"page": {"1"}, "limit": {"20"}},
			wantNoBody: true,
		},
		{
			name: "list page",
			call: func(s *Service) error {
				_, err := s.GetImagesList(t.Context(), 3, 50)
				return err
			},
			wantOp:     "get_images_list",
			wantMethod: http.MethodGet,
			wantPath:   "/images",
			wantQuery:  url.Values{"page": {"3"}, "limit": {"50"}},
			wantNoBody: true,
		},
		{
			name: "convert",
			call: func(s *Service) error {
				_, err := s.ConvertImage(t.Context(), 7, "AVIF")
				return err
			},
			wantOp:     "convert_image",
			wantMethod: http.MethodPost,
			wantPath:   "/images/7/convert",
			wantJSON:   map[string]any{"type": "avif"},
		},
		{
			name: "resize with both dimensions",
			call: func(s *Service) error {
				_, err := s.ResizeImage(t.Context(), 7, "cover", 640, 480)
				return err
			},
			wantOp:     "resize_image",
			wantMethod: http.MethodPost,
			wantPath:   "/images/7/resize",
			wantJSON:   map[string]any{"method": "cover", "width": float64(640), "height": float64(480)},
		},
		{
			name: "resize width only",
			call: func(s *Service) error {
				_, err := s.ResizeImage(t.Context(), 7, "contain", 320, 0)
				return err
			},
			wantOp:     "resize_image",
			wantMethod: http.MethodPost,
			wantPath:   "/images/7/resize",
			wantJSON:   map[string]any{"method": "contain", "width": float64(320)},
		},
		{
			name: "formats",
			call: func(s *Service) error {
				_, err := s.GetImageFormats(t.Context(), 7)
				return err
			},
			wantOp:     "get_image_formats",
			wantMethod: http.MethodGet,
			wantPath:   "/images/7/formats",
			wantNoBody: true,
		},
		{
			name: "variants",
			call: func(s *Service) error {
				_, err := s.GetImageVariants(t.Context(), 7)
				return err
			},
			wantOp:     "get_image_variants",
			wantMethod: http.MethodGet,
			wantPath:   "/images/7/variants",
			wantNoBody: true,
		},
		{
			name: "delete format",
			call: func(s *Service) error {
				return s.DeleteImageFormat(t.Context(), 7, 12)
			},
			wantOp:     "delete_image_format",
			wantMethod: http.MethodDelete,
			wantPath:   "/images/7/formats/12",
			wantNoBody: true,
		},
		{
			name: "delete variant",
			call: func(s *Service) error {
				return s.DeleteImageVariant(t.Context(), 7, 13)
			},
			wantOp:     "delete_image_variant",
			wantMethod: http.MethodDelete,
			wantPath:   "/images/7/variants/13",
			wantNoBody: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &MockRequester{}
			m.On("Do", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

			require.NoError(t, tc.call(NewService(m)))
			m.AssertExpectations(t)

			req := m.lastRequest(t)
			assert.Equal(t, tc.wantOp, req.Operation)
			assert.Equal(t, tc.wantMethod, req.Method)
			assert.Equal(t, tc.wantPath, req.Path)
			assert.Equal(t, tc.wantQuery, req.Query)

			if tc.wantNoBody {
				assert.Nil(t, req.Body)
				return
			}
			assert.Equal(t, tc.wantJSON, decodeJSONBody(t, req.Body))
		})
	}
}

func TestService_UploadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.jpg")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8\xff\xe0 jpeg bytes"), 0o600))

	m := &MockRequester{}
	m.On("Do", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.ImageStatus")).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*domain.UploadResponse)
			out.ID = "abc"
			out.Status = domain.StatusPending
		}).
		Return(nil).
		Once()

	res, err := NewService(m).UploadImage(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("abc"), res.ID)
	assert.Equal(t, domain.StatusPending, res.Status)

	req := m.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/images/upload", req.Path)
	assert.Equal(t, map[string]string{"file": "\xff\xd8\xff\xe0 jpeg bytes"}, readMultipartBody(t, req.Body))
}

func TestService_UploadImage_MissingFile(t *testing.T) {
	m := &MockRequester{}

	_, err := NewService(m).UploadImage(t.Context(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	m.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UploadImageFromURL(t *testing.T) {
	m := &MockRequester{}
	m.On("Do", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := NewService(m).UploadImageFromURL(t.Context(), "https://example.com/cat.png")
	require.NoError(t, err)

	req := m.lastRequest(t)
	assert.Equal(t, "upload_image_from_url", req.Operation)
	assert.Equal(t, "/images/upload", req.Path)
	assert.Equal(t, map[string]string{"image_url": "https://example.com/cat.png"}, readMultipartBody(t, req.Body))
}

func TestService_FormatValidation(t *testing.T) {
	valid := []string{"jpg", "JPG", ".jpg", "jpeg", ".JPEG", "png", "Png", "webp", ".webp", "avif", "AVIF"}
	invalid := []string{"gif", ".gif", "tiff", "", ".", "jpg ", "..png", "image/png"}

	for _, format := range valid {
		t.Run("valid "+format, func(t *testing.T) {
			m := &MockRequester{}
			m.On("Do", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
			s := NewService(m)

			_, err := s.OptimizeImage(t.Context(), 1, format)
			require.NoError(t, err)
			optimized := decodeJSONBody(t, m.lastRequest(t).Body)

			_, err = s.ConvertImage(t.Context(), 1, format)
			require.NoError(t, err)
			converted := decodeJSONBody(t, m.lastRequest(t).Body)

			assert.Equal(t, domain.NormalizeFormat(format), optimized["type"])
			assert.Equal(t, optimized, converted)
		})
	}

	for _, format := range invalid {
		t.Run("invalid "+format, func(t *testing.T) {
			m := &MockRequester{}
			s := NewService(m)

			_, err := s.OptimizeImage(t.Context(), 1, format)
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, format, ve.Value)
			assert.Equal(t, domain.NormalizeFormat(format), ve.Normalized)

			_, err = s.ConvertImage(t.Context(), 1, format)
			assert.ErrorIs(t, err, domain.ErrInvalidType)

			m.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_PropagatesErrors(t *testing.T) {
	httpErr := domain.NewHTTPError(404, "not found", []byte(`{"message":"not found"}`))
	netErr := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}

	tests := []struct {
		name string
		err  error
	}{
		{name: "http error", err: httpErr},
		{name: "network error", err: netErr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &MockRequester{}
			m.On("Do", mock.Anything, mock.Anything, mock.Anything).Return(tc.err)
			s := NewService(m)

			_, err := s.GetImageInfo(t.Context(), 1)
			assert.ErrorIs(t, err, tc.err)

			err = s.DeleteImageVariant(t.Context(), 1, 2)
			assert.ErrorIs(t, err, tc.err)

			_, err = s.ResizeImage(t.Context(), 1, "cover", 10, 10)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
