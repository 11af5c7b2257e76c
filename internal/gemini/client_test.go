package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/config"
)

func TestMissingKeySurfacesPerCall(t *testing.T) {
	client := New(config.GeminiConfig{TextModel: "m", ImageModel: "m"})

	assert.False(t, client.KeyConfigured())

	_, err := client.GenerateText(context.Background(), "hi", false)
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.GenerateImage(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestKeyConfigured(t *testing.T) {
	assert.True(t, New(config.GeminiConfig{APIKey: "k"}).KeyConfigured())
	assert.False(t, New(config.GeminiConfig{APIKey: "   "}).KeyConfigured())
}

func TestModelAccessors(t *testing.T) {
	client := New(config.GeminiConfig{TextModel: "text-model", ImageModel: "image-model"})

	assert.Equal(t, "text-model", client.TextModel())
	assert.Equal(t, "image-model", client.ImageModel())
}
