// internal/service/images/service.go

package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendlens/internal/domain/image"
	"trendlens/internal/gemini"
	"trendlens/internal/service/prompt"
)

const (
	minCombineImages = 2
	maxCombineImages = 5
	maxVariants      = 4
)

// Generator defines the model dependency of the image service.
// Satisfied by *gemini.Client; tests inject fakes.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, parts []gemini.Part) ([]gemini.Image, error)
}

// Service implements the image edit, combine and mask-edit operations.
type Service struct {
	gen            Generator
	stager         *Stager
	log            *zap.Logger
	persistOutputs bool
}

// NewService creates an image service. When persistOutputs is set,
// generated images are also materialized under the staging directory
// for local inspection; the base64 payload in the response is
// authoritative either way.
func NewService(gen Generator, stager *Stager, log *zap.Logger, persistOutputs bool) *Service {
	return &Service{
		gen:            gen,
		stager:         stager,
		log:            log,
		persistOutputs: persistOutputs,
	}
}

// Edit applies a prompt to one image and produces up to maxVariants
// variants. Variant calls run concurrently; output order is preserved
// by index. All staged files are released on every exit path.
func (s *Service) Edit(ctx context.Context, req image.EditRequest) (*image.Result, error) {
	mime, data, err := ParseDataURL(req.ImageDataURL)
	if err != nil {
		return nil, image.ErrInvalidImageFormat
	}

	var staged []string
	defer func() { s.stager.Cleanup(staged) }()

	reqID := uuid.New().String()
	inPath, err := s.stager.SaveBytes(data, reqID+"-edit-input"+ExtForMIME(mime))
	if err != nil {
		return nil, err
	}
	staged = append(staged, inPath)

	part, err := s.stager.PreparePart(inPath)
	if err != nil {
		return nil, err
	}

	instruction := prompt.ImageEdit(prompt.ImageEditConfig{
		Prompt:        req.Prompt,
		PreserveStyle: req.PreserveStyle,
	})

	variants := req.Variants
	if variants < 1 {
		variants = 1
	}
	if variants > maxVariants {
		variants = maxVariants
	}

	outputs, err := s.fanOut(ctx, instruction, []gemini.Part{part}, variants)
	if err != nil {
		return nil, err
	}

	return s.assemble(reqID, "edited", outputs,
		fmt.Sprintf("Edited image with %d variant(s)", variants)), nil
}

// Combine merges 2 to 5 uploaded images into one. Uploads are staged
// before validation so a rejected request still exercises cleanup of
// everything it wrote.
func (s *Service) Combine(ctx context.Context, req image.CombineRequest) (*image.Result, error) {
	var staged []string
	defer func() { s.stager.Cleanup(staged) }()

	reqID := uuid.New().String()
	parts := make([]gemini.Part, 0, len(req.Uploads))
	for i, up := range req.Uploads {
		name := fmt.Sprintf("%s-combine-%d%s", reqID, i, extForUpload(up))
		path, err := s.stager.SaveBytes(up.Data, name)
		if err != nil {
			return nil, err
		}
		staged = append(staged, path)

		part, err := s.stager.PreparePart(path)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if len(parts) < minCombineImages {
		return nil, image.ErrNotEnoughImages
	}
	if len(parts) > maxCombineImages {
		return nil, image.ErrTooManyImages
	}

	instruction := prompt.ImageCombine(prompt.ImageCombineConfig{
		Prompt: req.Prompt,
		Layout: req.Layout,
		Style:  req.Style,
		Count:  len(parts),
	})

	outputs, err := s.gen.GenerateImage(ctx, instruction, parts)
	if err != nil {
		return nil, err
	}

	return s.assemble(reqID, "combined", outputs,
		fmt.Sprintf("Combined %d images", len(parts))), nil
}

// MaskEdit applies a prompt to a masked region of one image. The mask
// is either a second image or a textual region description.
func (s *Service) MaskEdit(ctx context.Context, req image.MaskRequest) (*image.Result, error) {
	mime, data, err := ParseDataURL(req.ImageDataURL)
	if err != nil {
		return nil, image.ErrInvalidImageFormat
	}
	if req.MaskDataURL == "" && req.MaskDescription == "" {
		return nil, image.ErrMissingMask
	}

	var staged []string
	defer func() { s.stager.Cleanup(staged) }()

	reqID := uuid.New().String()
	inPath, err := s.stager.SaveBytes(data, reqID+"-mask-input"+ExtForMIME(mime))
	if err != nil {
		return nil, err
	}
	staged = append(staged, inPath)

	part, err := s.stager.PreparePart(inPath)
	if err != nil {
		return nil, err
	}
	parts := []gemini.Part{part}

	if req.MaskDataURL != "" {
		maskMime, maskData, err := ParseDataURL(req.MaskDataURL)
		if err != nil {
			return nil, image.ErrInvalidImageFormat
		}
		maskPath, err := s.stager.SaveBytes(maskData, reqID+"-mask"+ExtForMIME(maskMime))
		if err != nil {
			return nil, err
		}
		staged = append(staged, maskPath)

		maskPart, err := s.stager.PreparePart(maskPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, maskPart)
	}

	instruction := prompt.ImageMask(prompt.ImageMaskConfig{
		Prompt:          req.Prompt,
		MaskDescription: req.MaskDescription,
		HasMaskImage:    req.MaskDataURL != "",
	})

	outputs, err := s.gen.GenerateImage(ctx, instruction, parts)
	if err != nil {
		return nil, err
	}

	return s.assemble(reqID, "mask-edited", outputs, "Applied masked edit"), nil
}

// fanOut issues n independent model calls concurrently and collects the
// first image of each in index order. There is no cancellation wiring;
// every call runs to completion.
func (s *Service) fanOut(ctx context.Context, instruction string, parts []gemini.Part, n int) ([]gemini.Image, error) {
	results := make([]gemini.Image, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			imgs, err := s.gen.GenerateImage(ctx, instruction, parts)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = imgs[0]
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Service) assemble(reqID, purpose string, outputs []gemini.Image, message string) *image.Result {
	result := &image.Result{
		Success: true,
		Message: message,
		Images:  make([]image.Generated, 0, len(outputs)),
	}

	for i, out := range outputs {
		filename := fmt.Sprintf("%s-%s-%d%s", reqID, purpose, i, ExtForMIME(out.MIMEType))
		if s.persistOutputs {
			s.writeOutput(filename, out.Data)
		}
		result.Images = append(result.Images, image.Generated{
			Filename: filename,
			URL:      "/outputs/" + filename,
			Base64:   base64.StdEncoding.EncodeToString(out.Data),
			MIMEType: out.MIMEType,
		})
	}
	return result
}

// writeOutput materializes a generated image for local inspection.
// Best effort; the base64 payload already carries the result.
func (s *Service) writeOutput(filename string, data []byte) {
	if err := os.MkdirAll(s.stager.Dir(), 0o755); err != nil {
		s.log.Warn("failed to create outputs dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(filepath.Join(s.stager.Dir(), filename), data, 0o644); err != nil {
		s.log.Warn("failed to write output image", zap.String("file", filename), zap.Error(err))
	}
}

func extForUpload(up image.Upload) string {
	if ext := filepath.Ext(up.Filename); ext != "" {
		return ext
	}
	return ExtForMIME(up.MIMEType)
}
