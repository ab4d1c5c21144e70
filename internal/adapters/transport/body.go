package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"tinyami/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// JSONBody encodes a value as application/json.
type JSONBody struct {
	Value any
}

var _ port.Body = JSONBody{}

func (b JSONBody) Open() (io.Reader, string, error) {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name string
	path string
}

// MultipartBody is a multipart/form-data payload. Files are streamed from disk while the
// request is being sent, and each Open reads them again from the start.
type MultipartBody struct {
	fields []formField
	files  []formFile
}

var _ port.Body = (*MultipartBody)(nil)

func NewMultipartBody() *MultipartBody {
	return &MultipartBody{}
}

// Field adds a plain text field.
func (b *MultipartBody) Field(name, value string) *MultipartBody {
	b.fields = append(b.fields, formField{name: name, value: value})
	return b
}

// File adds a file part read from path.
func (b *MultipartBody) File(name, path string) *MultipartBody {
	b.files = append(b.files, formFile{name: name, path: path})
	return b
}

// Open returns a pipe fed by a goroutine that writes the form. File handles are
// acquired before Open returns and released once the form has been written or the
// reader has been closed.
func (b *MultipartBody) Open() (io.Reader, string, error) {
	handles := make([]*os.File, 0, len(b.files))
	for _, ff := range b.files {
		f, err := os.Open(ff.path)
		if err != nil {
			closeAll(handles)
			return nil, "", fmt.Errorf("error opening %s: %w", ff.path, err)
		}
		handles = append(handles, f)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer closeAll(handles)
		pw.CloseWithError(b.write(mw, handles))
	}()

	return pr, mw.FormDataContentType(), nil
}

func (b *MultipartBody) write(mw *multipart.Writer, handles []*os.File) error {
	for _, field := range b.fields {
		if err := mw.WriteField(field.name, field.value); err != nil {
			return err
		}
	}

	for i, ff := range b.files {
		if err := writeFilePart(mw, ff.name, handles[i]); err != nil {
			return fmt.Errorf("error writing %s: %w", ff.path, err)
		}
	}

	return mw.Close()
}

func writeFilePart(mw *multipart.Writer, name string, f *os.File) error {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(name), escapeQuotes(filepath.Base(f.Name()))))
	h.Set("Content-Type", mtype.String())

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	n, err := io.Copy(part, f)
	if err != nil {
		return err
	}

	log.Debug().Str("file", f.Name()).Str("contentType", mtype.String()).Int64("bytes", n).Msg("streamed file part")
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func closeAll(files []*os.File) {
	for _, f := range files {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("file", f.Name()).Msg("could not close upload file")
		}
	}
}
