package file

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"tinyami/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRegular(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(existing, []byte("png"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name: "regular file",
			path: existing,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.png"),
			wantErr: domain.ErrFileNotFound,
		},
		{
			name:    "directory",
			path:    dir,
			wantErr: domain.ErrNotRegularFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRegular(tc.path)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tc.wantErr)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.path, ve.Value)
		})
	}
}

func TestDownload(t *testing.T) {
	tests := []struct {
		name       string
		inputBytes []byte
		status     int
		wantErr    bool
	}{
		{
			name:       "success",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "not found",
			inputBytes: []byte("not found"),
			status:     http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("X-Tinyami-Access-Token"))
				w.WriteHeader(tc.status)
				_, err := w.Write(tc.inputBytes)
				assert.NoError(t, err)
			}))
			defer srv.Close()

			res, err := Download(t.Context(), srv.URL)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.inputBytes, res)
			}
		})
	}
}

func TestSave(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{
			name:    "success",
			content: []byte("test\n"),
		},
		{
			name:    "empty file",
			content: []byte(""),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.webp")

			require.NoError(t, Save(path, tc.content))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, len(tc.content), len(got))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file left behind")
		})
	}
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "nope", "out.webp"), []byte("x"))
	require.Error(t, err)
}
