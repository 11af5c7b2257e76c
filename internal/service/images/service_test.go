package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/domain/image"
	"trendlens/internal/gemini"
	"trendlens/internal/logger"
)

// fakeImageGenerator counts calls and returns one canned image per call.
type fakeImageGenerator struct {
	calls  atomic.Int64
	err    error
	output []byte
}

func (f *fakeImageGenerator) GenerateImage(ctx context.Context, prompt string, parts []gemini.Part) ([]gemini.Image, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := f.output
	if out == nil {
		out = []byte("generated")
	}
	return []gemini.Image{{MIMEType: "image/png", Data: out}}, nil
}

func dataURL(payload []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
}

func newTestService(t *testing.T, gen Generator) (*Service, string) {
	dir := t.TempDir()
	svc := NewService(gen, NewStager(dir), logger.NewTestLogger(t), false)
	return svc, dir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files must be cleaned up")
}

func TestEdit_SingleVariant(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	result, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "make it blue",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, gen.calls.Load())
	require.Len(t, result.Images, 1)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Images[0].Filename)
	assert.Equal(t, "/outputs/"+result.Images[0].Filename, result.Images[0].URL)

	decoded, err := base64.StdEncoding.DecodeString(result.Images[0].Base64)
	require.NoError(t, err)
	assert.Equal(t, []byte("generated"), decoded)

	assertDirEmpty(t, dir)
}

func TestEdit_VariantFanOut(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	result, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "make it blue",
		Variants:     3,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 3, gen.calls.Load(), "one model call per variant")
	assert.Len(t, result.Images, 3)

	// Filenames are assembled by index, preserving output order.
	for i, img := range result.Images {
		assert.Contains(t, img.Filename, fmt.Sprintf("-edited-%d", i))
	}

	assertDirEmpty(t, dir)
}

func TestEdit_VariantsClamped(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, _ := newTestService(t, gen)

	result, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "p",
		Variants:     50,
	})
	require.NoError(t, err)
	assert.Len(t, result.Images, 4)
}

func TestEdit_InvalidDataURL(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, _ := newTestService(t, gen)

	_, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: "https://example.com/not-a-data-url.png",
		Prompt:       "p",
	})

	assert.ErrorIs(t, err, image.ErrInvalidImageFormat)
	assert.EqualValues(t, 0, gen.calls.Load(), "no model call for invalid input")
}

func TestEdit_GeneratorFailureStillCleansUp(t *testing.T) {
	gen := &fakeImageGenerator{err: errors.New("model down")}
	svc, dir := newTestService(t, gen)

	_, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "p",
	})

	require.Error(t, err)
	assertDirEmpty(t, dir)
}

func TestCombine_TooFewImages(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	_, err := svc.Combine(context.Background(), image.CombineRequest{
		Uploads: []image.Upload{{Filename: "a.png", Data: []byte("one")}},
		Prompt:  "merge",
	})

	assert.ErrorIs(t, err, image.ErrNotEnoughImages)
	assert.EqualValues(t, 0, gen.calls.Load(), "no model call for a rejected request")
	// The single upload was staged before validation and must be gone.
	assertDirEmpty(t, dir)
}

func TestCombine_TooManyImages(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	uploads := make([]image.Upload, 6)
	for i := range uploads {
		uploads[i] = image.Upload{Filename: "a.png", Data: []byte("x")}
	}

	_, err := svc.Combine(context.Background(), image.CombineRequest{Uploads: uploads, Prompt: "merge"})

	assert.ErrorIs(t, err, image.ErrTooManyImages)
	assert.EqualValues(t, 0, gen.calls.Load())
	assertDirEmpty(t, dir)
}

func TestCombine_Success(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	result, err := svc.Combine(context.Background(), image.CombineRequest{
		Uploads: []image.Upload{
			{Filename: "a.png", Data: []byte("one")},
			{Filename: "b.jpg", Data: []byte("two")},
		},
		Prompt: "merge",
		Layout: "side by side",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, gen.calls.Load())
	require.Len(t, result.Images, 1)
	assert.Contains(t, result.Message, "2")
	assertDirEmpty(t, dir)
}

func TestMaskEdit_RequiresMaskOrDescription(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, _ := newTestService(t, gen)

	_, err := svc.MaskEdit(context.Background(), image.MaskRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "p",
	})

	assert.ErrorIs(t, err, image.ErrMissingMask)
	assert.EqualValues(t, 0, gen.calls.Load())
}

func TestMaskEdit_WithMaskImage(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	result, err := svc.MaskEdit(context.Background(), image.MaskRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "p",
		MaskDataURL:  dataURL([]byte("mask")),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, gen.calls.Load())
	require.Len(t, result.Images, 1)
	assertDirEmpty(t, dir)
}

func TestMaskEdit_WithDescription(t *testing.T) {
	gen := &fakeImageGenerator{}
	svc, dir := newTestService(t, gen)

	result, err := svc.MaskEdit(context.Background(), image.MaskRequest{
		ImageDataURL:    dataURL([]byte("input")),
		Prompt:          "p",
		MaskDescription: "the sky only",
	})
	require.NoError(t, err)

	require.Len(t, result.Images, 1)
	assertDirEmpty(t, dir)
}

func TestPersistOutputs(t *testing.T) {
	gen := &fakeImageGenerator{}
	dir := t.TempDir()
	svc := NewService(gen, NewStager(dir), logger.NewTestLogger(t), true)

	result, err := svc.Edit(context.Background(), image.EditRequest{
		ImageDataURL: dataURL([]byte("input")),
		Prompt:       "p",
	})
	require.NoError(t, err)

	// Output file is materialized; the staged input is gone.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, result.Images[0].Filename, entries[0].Name())
}
