package domain

// Status is the processing state of an upload or optimize request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether no further transition is expected for the status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ImageStatus is a snapshot of the processing lifecycle of an image.
type ImageStatus struct {
	ID            ID         `json:"id"`
	Status        Status     `json:"status"`
	OriginalSize  int64      `json:"originalSize"`
	OptimizedSize *int64     `json:"optimizedSize,omitempty"`
	OriginalURL   string     `json:"originalUrl"`
	OptimizedURL  *string    `json:"optimizedUrl,omitempty"`
	CreatedAt     Timestamp  `json:"createdAt"`
	CompletedAt   *Timestamp `json:"completedAt,omitempty"`
	Error         *string    `json:"error,omitempty"`
}

// UploadResponse is returned by both upload endpoints.
type UploadResponse = ImageStatus

// OptimizeResponse is returned by the optimize endpoint.
type OptimizeResponse = ImageStatus

type OriginalImage struct {
	ID         int64      `json:"id"`
	OriginName string     `json:"origin_name"`
	Ext        string     `json:"ext"`
	MimeType   string     `json:"mime_type"`
	OriginSize int64      `json:"origin_size"`
	UID        string     `json:"uid"`
	S3Path     string     `json:"s3_path"`
	CreatedAt  Timestamp  `json:"created_at"`
	UpdatedAt  *Timestamp `json:"updated_at"`
}

// Format is a re-encoded rendition of an original image.
type Format struct {
	ID              int64      `json:"id"`
	OriginalImageID int64      `json:"original_image_id"`
	Format          string     `json:"format"`
	S3Path          string     `json:"s3_path"`
	Size            int64      `json:"size"`
	Reduction       float64    `json:"reduction"`
	CreatedAt       Timestamp  `json:"created_at"`
	UpdatedAt       *Timestamp `json:"updated_at"`
}

// Variant is a resized or converted rendition of an original image.
type Variant struct {
	ID              int64      `json:"id"`
	OriginalImageID int64      `json:"original_image_id"`
	VariantType     string     `json:"variant_type"`
	Format          *string    `json:"format"`
	Width           *int       `json:"width"`
	Height          *int       `json:"height"`
	Fit             *string    `json:"fit"`
	SizeBytes       *int64     `json:"size_bytes"`
	S3Path          string     `json:"s3_path"`
	CreatedAt       Timestamp  `json:"created_at"`
	UpdatedAt       *Timestamp `json:"updated_at"`
	PreviewURL      *string    `json:"preview_url"`
	DownloadURL     *string    `json:"download_url"`
}

type ImageList struct {
	Status string          `json:"status"`
	Msg    string          `json:"msg"`
	Images []OriginalImage `json:"images"`
}

type ConvertResult struct {
	Status    string  `json:"status"`
	Msg       string  `json:"msg"`
	Converted Variant `json:"converted"`
}

type ResizeResult struct {
	Status  string  `json:"status"`
	Msg     string  `json:"msg"`
	Resized Variant `json:"resized"`
}

type FormatList struct {
	Msg     string   `json:"msg"`
	Formats []Format `json:"formats"`
}

type VariantList struct {
	Msg      string    `json:"msg"`
	Variants []Variant `json:"variants"`
}
