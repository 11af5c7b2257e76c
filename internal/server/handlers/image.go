// internal/server/handlers/image.go

package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"trendlens/internal/domain/image"
)

// maxUploadBytes bounds multipart form memory usage.
const maxUploadBytes = 32 << 20

// ImageService defines the operations the image handler depends on.
type ImageService interface {
	Edit(ctx context.Context, req image.EditRequest) (*image.Result, error)
	Combine(ctx context.Context, req image.CombineRequest) (*image.Result, error)
	MaskEdit(ctx context.Context, req image.MaskRequest) (*image.Result, error)
}

// ImageHandler handles image-related HTTP requests
type ImageHandler struct {
	service ImageService
	log     *zap.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(service ImageService, log *zap.Logger) *ImageHandler {
	return &ImageHandler{
		service: service,
		log:     log,
	}
}

// EditImage applies a prompt to one image
func (h *ImageHandler) EditImage(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	img := stringField(body, "image")
	prompt := stringField(body, "prompt")
	if img == "" || prompt == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: image, prompt")
		return
	}
	if !strings.HasPrefix(img, "data:image/") {
		respondWithError(w, http.StatusBadRequest, image.ErrInvalidImageFormat.Error())
		return
	}

	req := image.EditRequest{
		ImageDataURL:  img,
		Prompt:        prompt,
		PreserveStyle: boolField(body, "preserveStyle"),
		Variants:      intField(body, "variants", 1),
	}

	result, err := h.service.Edit(r.Context(), req)
	if err != nil {
		if validationError(w, err) {
			return
		}
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// CombineImages merges 2-5 uploaded images into one
func (h *ImageHandler) CombineImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required field: prompt")
		return
	}

	var uploads []image.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Failed to read uploaded image")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Failed to read uploaded image")
				return
			}
			uploads = append(uploads, image.Upload{
				Filename: header.Filename,
				Data:     data,
				MIMEType: header.Header.Get("Content-Type"),
			})
		}
	}

	req := image.CombineRequest{
		Uploads: uploads,
		Prompt:  prompt,
		Layout:  strings.TrimSpace(r.FormValue("layout")),
		Style:   strings.TrimSpace(r.FormValue("style")),
	}

	result, err := h.service.Combine(r.Context(), req)
	if err != nil {
		if validationError(w, err) {
			return
		}
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// MaskEditImage applies a prompt to a masked region of one image
func (h *ImageHandler) MaskEditImage(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	img := stringField(body, "image")
	prompt := stringField(body, "prompt")
	if img == "" || prompt == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: image, prompt")
		return
	}
	if !strings.HasPrefix(img, "data:image/") {
		respondWithError(w, http.StatusBadRequest, image.ErrInvalidImageFormat.Error())
		return
	}

	mask := stringField(body, "mask")
	maskDescription := stringField(body, "maskDescription")
	if mask == "" && maskDescription == "" {
		respondWithError(w, http.StatusBadRequest, image.ErrMissingMask.Error())
		return
	}

	req := image.MaskRequest{
		ImageDataURL:    img,
		Prompt:          prompt,
		MaskDataURL:     mask,
		MaskDescription: maskDescription,
	}

	result, err := h.service.MaskEdit(r.Context(), req)
	if err != nil {
		if validationError(w, err) {
			return
		}
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
