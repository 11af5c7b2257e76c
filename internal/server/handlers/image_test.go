package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/domain/image"
	"trendlens/internal/gemini"
	"trendlens/internal/logger"
	"trendlens/internal/service/images"
)

type countingImageGenerator struct {
	calls int
}

func (c *countingImageGenerator) GenerateImage(ctx context.Context, prompt string, parts []gemini.Part) ([]gemini.Image, error) {
	c.calls++
	return []gemini.Image{{MIMEType: "image/png", Data: []byte("generated")}}, nil
}

func newImageHandler(t *testing.T) (*ImageHandler, *countingImageGenerator, string) {
	gen := &countingImageGenerator{}
	dir := t.TempDir()
	svc := images.NewService(gen, images.NewStager(dir), logger.NewTestLogger(t), false)
	return NewImageHandler(svc, logger.NewTestLogger(t)), gen, dir
}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png"))
}

func TestEditImage_InvalidImageFormat(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	w := postJSON(h.EditImage, "/api/image/edit",
		`{"image":"https://example.com/a.png","prompt":"make it blue"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "Invalid image format")
	assert.Zero(t, gen.calls, "no model call for invalid input")
}

func TestEditImage_MissingFields(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	for _, body := range []string{`{}`, `{"image":"` + pngDataURL() + `"}`, `{"prompt":"p"}`} {
		w := postJSON(h.EditImage, "/api/image/edit", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	assert.Zero(t, gen.calls)
}

func TestEditImage_Success(t *testing.T) {
	h, gen, dir := newImageHandler(t)

	w := postJSON(h.EditImage, "/api/image/edit",
		`{"image":"`+pngDataURL()+`","prompt":"make it blue","preserveStyle":"true"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gen.calls)

	var result image.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.Len(t, result.Images, 1)
	assert.NotEmpty(t, result.Images[0].Base64)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged input must be deleted")
}

func multipartRequest(t *testing.T, fileCount int, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := 0; i < fileCount; i++ {
		fw, err := mw.CreateFormFile("images", "upload.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake png"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/api/image/combine", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestCombineImages_SingleUploadIs400(t *testing.T) {
	h, gen, dir := newImageHandler(t)

	r := multipartRequest(t, 1, map[string]string{"prompt": "merge"})
	w := httptest.NewRecorder()
	h.CombineImages(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "At least 2 images are required", body["error"])
	assert.Zero(t, gen.calls, "no model call is issued")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "the uploaded temp file is deleted")
}

func TestCombineImages_MissingPrompt(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	r := multipartRequest(t, 2, nil)
	w := httptest.NewRecorder()
	h.CombineImages(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.calls)
}

func TestCombineImages_Success(t *testing.T) {
	h, gen, dir := newImageHandler(t)

	r := multipartRequest(t, 3, map[string]string{"prompt": "merge", "layout": "grid"})
	w := httptest.NewRecorder()
	h.CombineImages(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gen.calls)

	var result image.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMaskEditImage_RequiresMaskOrDescription(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	w := postJSON(h.MaskEditImage, "/api/image/mask-edit",
		`{"image":"`+pngDataURL()+`","prompt":"p"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "mask")
	assert.Zero(t, gen.calls)
}

func TestMaskEditImage_WithDescription(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	w := postJSON(h.MaskEditImage, "/api/image/mask-edit",
		`{"image":"`+pngDataURL()+`","prompt":"p","maskDescription":"the sky"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gen.calls)
}

func TestMaskEditImage_WithMaskImage(t *testing.T) {
	h, gen, _ := newImageHandler(t)

	w := postJSON(h.MaskEditImage, "/api/image/mask-edit",
		`{"image":"`+pngDataURL()+`","prompt":"p","mask":"`+pngDataURL()+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gen.calls)
}

// The real image service satisfies the handler dependency.
var _ ImageService = (*images.Service)(nil)
