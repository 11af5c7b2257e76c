// internal/gemini/client.go

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"trendlens/internal/config"
	"trendlens/internal/metrics"
)

// ErrMissingAPIKey is returned on every model call attempted without a
// configured key. The absence of the key is a request-time condition,
// not a startup failure.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Part is an inline image sent alongside a prompt.
type Part struct {
	MIMEType string
	Data     []byte
}

// Image is an inline image returned by an image model.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client wraps the Google GenAI client. The underlying SDK client is
// built lazily on first use so a missing key surfaces per request.
type Client struct {
	cfg config.GeminiConfig

	once   sync.Once
	client *genai.Client
	err    error
}

// New creates a client from configuration. No network activity happens
// here.
func New(cfg config.GeminiConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) instance(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		if strings.TrimSpace(c.cfg.APIKey) == "" {
			c.err = ErrMissingAPIKey
			return
		}
		c.client, c.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return c.client, c.err
}

// KeyConfigured reports whether an API key is present.
func (c *Client) KeyConfigured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// TextModel returns the resolved text model id.
func (c *Client) TextModel() string { return c.cfg.TextModel }

// ImageModel returns the resolved image model id.
func (c *Client) ImageModel() string { return c.cfg.ImageModel }

// GenerateText issues a text generation call and returns the
// concatenated text parts of the first candidate. When grounded is set
// the call is configured with the Google Search tool so the model can
// cite live sources.
func (c *Client) GenerateText(ctx context.Context, prompt string, grounded bool) (string, error) {
	kind := "text"
	if grounded {
		kind = "text_grounded"
	}

	client, err := c.instance(ctx)
	if err != nil {
		metrics.ModelCalls.WithLabelValues(kind, "error").Inc()
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: ptr(float32(c.cfg.Temperature)),
	}
	if grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.cfg.TextModel, contents, cfg)
	metrics.ModelCallDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelCalls.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("gemini text call: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		metrics.ModelCalls.WithLabelValues(kind, "empty").Inc()
		return "", errors.New("gemini text call: empty response")
	}

	metrics.ModelCalls.WithLabelValues(kind, "ok").Inc()
	return text, nil
}

// GenerateImage issues an image generation call with an instruction and
// zero or more inline input images, returning the inline images of the
// first candidate.
func (c *Client) GenerateImage(ctx context.Context, prompt string, parts []Part) ([]Image, error) {
	client, err := c.instance(ctx)
	if err != nil {
		metrics.ModelCalls.WithLabelValues("image", "error").Inc()
		return nil, err
	}

	genaiParts := []*genai.Part{{Text: prompt}}
	for _, p := range parts {
		genaiParts = append(genaiParts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: genaiParts}}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.cfg.ImageModel, contents, cfg)
	metrics.ModelCallDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelCalls.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("gemini image call: %w", err)
	}

	images := responseImages(resp)
	if len(images) == 0 {
		metrics.ModelCalls.WithLabelValues("image", "empty").Inc()
		return nil, errors.New("gemini image call: no image in response")
	}

	metrics.ModelCalls.WithLabelValues("image", "ok").Inc()
	return images, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func responseImages(resp *genai.GenerateContentResponse) []Image {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var images []Image
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			images = append(images, Image{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			})
		}
	}
	return images
}

func ptr[T any](v T) *T { return &v }
