// internal/service/images/staging.go

package images

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trendlens/internal/gemini"
	"trendlens/internal/metrics"
)

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Stager writes image payloads to a per-deployment staging directory.
// Files are uniquely named per request so concurrent requests never
// collide; each request deletes exactly the files it created.
type Stager struct {
	dir string
}

// NewStager creates a stager rooted at dir.
func NewStager(dir string) *Stager {
	return &Stager{dir: dir}
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// SaveBase64 decodes a base64 payload and writes it under the staging
// directory, returning the full path.
func (s *Stager) SaveBase64(b64, filename string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64 image: %w", err)
	}
	return s.SaveBytes(data, filename)
}

// SaveBytes writes raw bytes under the staging directory, returning the
// full path.
func (s *Stager) SaveBytes(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write staged image: %w", err)
	}
	metrics.StagedFiles.WithLabelValues("input").Inc()
	return path, nil
}

// PreparePart reads a staged file back and pairs it with a MIME type
// derived from its extension for an outbound model call. Unknown
// extensions default to image/jpeg.
func (s *Stager) PreparePart(path string) (gemini.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gemini.Part{}, fmt.Errorf("read staged image: %w", err)
	}
	return gemini.Part{
		MIMEType: MIMEForExt(filepath.Ext(path)),
		Data:     data,
	}, nil
}

// Cleanup deletes every staged path, best effort. Missing files and
// deletion errors are tolerated so cleanup can never mask a primary
// error.
func (s *Stager) Cleanup(paths []string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}

// MIMEForExt maps a file extension to an image MIME type, defaulting to
// image/jpeg.
func MIMEForExt(ext string) string {
	if mime, ok := mimeByExt[strings.ToLower(ext)]; ok {
		return mime
	}
	return "image/jpeg"
}

// ExtForMIME maps an image MIME type to a file extension, defaulting to
// .png for generated output.
func ExtForMIME(mime string) string {
	if ext, ok := extByMime[strings.ToLower(mime)]; ok {
		return ext
	}
	return ".png"
}

// ParseDataURL splits a data:image/... URL into its MIME type and
// decoded bytes.
func ParseDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", nil, fmt.Errorf("not a data:image URL")
	}
	rest := strings.TrimPrefix(dataURL, "data:")
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	mime := rest[:idx]
	data, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL payload: %w", err)
	}
	return mime, data, nil
}
