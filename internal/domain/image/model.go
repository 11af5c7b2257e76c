package image

import "errors"

// Upload is a client-supplied image, either decoded from a data URL or
// read from a multipart part.
type Upload struct {
	Filename string
	Data     []byte
	MIMEType string
}

// EditRequest carries the parameters of a single-image edit.
type EditRequest struct {
	ImageDataURL  string
	Prompt        string
	PreserveStyle bool
	Variants      int
}

// CombineRequest carries the parameters of a multi-image combine.
type CombineRequest struct {
	Uploads []Upload
	Prompt  string
	Layout  string
	Style   string
}

// MaskRequest carries the parameters of a masked edit. Either
// MaskDataURL or MaskDescription must be set.
type MaskRequest struct {
	ImageDataURL    string
	Prompt          string
	MaskDataURL     string
	MaskDescription string
}

// Generated is a single produced image. Base64 is authoritative; URL
// points at a local outputs file when one was materialized.
type Generated struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

// Result is the outcome of an image operation.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Images  []Generated `json:"images"`
}

// Validation errors surfaced to clients as 400s. Messages are
// client-visible, so they are phrased for the dashboard.
var (
	ErrInvalidImageFormat = errors.New("Invalid image format. Expected a data:image/... URL")
	ErrNotEnoughImages    = errors.New("At least 2 images are required")
	ErrTooManyImages      = errors.New("At most 5 images are allowed")
	ErrMissingMask        = errors.New("Either mask or maskDescription is required")
)
