// Package prompt builds the instruction strings sent to the model.
// Builders are pure: defaults are interpolated for missing fields and
// no state is touched.
package prompt

import (
	"fmt"
	"strings"
)

const (
	defaultLanguage = "en-US"
	defaultTone     = "engaging, upbeat"
	defaultWindow   = 7
)

// SearchConfig configures a trend search prompt.
type SearchConfig struct {
	Query    string
	Mode     string
	Platform string
	Topic    string
	Language string
	Country  string
	Days     int
}

const searchSchema = `{
  "trends": [
    {
      "topic": "short trend title",
      "keyTopic": "CamelCaseKeyword",
      "scale": 0.82,
      "sentiment": {"positive": 60, "negative": 10, "neutral": 30, "label": "positive"},
      "hashtags": ["tag1", "tag2"],
      "engagement": {"estimated": "high", "reason": "why"},
      "evidence": [{"title": "source title", "url": "https://...", "platform": "tiktok", "publishedAt": "2026-08-01"}],
      "platformHint": {"platform": "tiktok", "query": "search terms"}
    }
  ],
  "summary": "one paragraph overview"
}`

// Search builds the grounded trend-search prompt.
func Search(cfg SearchConfig) string {
	lang := withDefault(cfg.Language, defaultLanguage)
	days := cfg.Days
	if days <= 0 {
		days = defaultWindow
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a social media trend researcher. Using live web search, find current trends for the query %q over the last %d days.\n", cfg.Query, days)
	if cfg.Platform != "" {
		fmt.Fprintf(&sb, "Focus exclusively on %s. Evidence URLs must point at %s content.\n", cfg.Platform, cfg.Platform)
	}
	if cfg.Topic != "" {
		fmt.Fprintf(&sb, "Topic area: %s.\n", cfg.Topic)
	}
	if cfg.Country != "" {
		fmt.Fprintf(&sb, "Regional focus: %s.\n", cfg.Country)
	}
	if cfg.Mode != "" {
		fmt.Fprintf(&sb, "Research mode: %s.\n", cfg.Mode)
	}
	fmt.Fprintf(&sb, "Write all free text in %s.\n", lang)
	sb.WriteString("Include up to 10 trends, each with up to 2 evidence sources with real working URLs.\n\n")
	sb.WriteString("Reply with exactly this JSON shape and nothing else. No markdown fences, no commentary:\n")
	sb.WriteString(searchSchema)
	return sb.String()
}

// SearchStrictTikTok builds the retry prompt used when a tiktok-scoped
// search produced zero tiktok URLs. It demands canonical video links
// only.
func SearchStrictTikTok(cfg SearchConfig) string {
	base := Search(cfg)
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\nSTRICT REQUIREMENT: every evidence URL must be a direct TikTok video link of the form https://www.tiktok.com/@username/video/1234567890. Do not cite hashtag pages, discovery pages, or any non-TikTok site. Omit a trend entirely rather than citing anything else.")
	return sb.String()
}

// InsightConfig configures an insight snapshot prompt.
type InsightConfig struct {
	Platform       string
	ContentType    string
	TargetAudience string
	Product        string
	Brand          string
	Message        string
	Language       string
}

const insightSchema = `{
  "trendTopics": [{"topic": "title", "description": "why it works", "hashtags": ["tag1"]}],
  "hookPatterns": ["opening line pattern"],
  "anglePatterns": ["content angle"],
  "ctaBank": ["call to action"],
  "hashtagClusters": [{"name": "cluster theme", "tags": ["tag1", "tag2"]}],
  "summary": "one paragraph overview"
}`

// Insights builds the grounded trend-insight prompt.
func Insights(cfg InsightConfig) string {
	lang := withDefault(cfg.Language, defaultLanguage)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a marketing strategist. Using live web search, compile a snapshot of what currently performs on %s for %s content aimed at %s.\n",
		cfg.Platform, cfg.ContentType, cfg.TargetAudience)
	if cfg.Product != "" {
		fmt.Fprintf(&sb, "Product: %s.\n", cfg.Product)
	}
	if cfg.Brand != "" {
		fmt.Fprintf(&sb, "Brand: %s.\n", cfg.Brand)
	}
	if cfg.Message != "" {
		fmt.Fprintf(&sb, "Core message: %s.\n", cfg.Message)
	}
	fmt.Fprintf(&sb, "Write all free text in %s.\n", lang)
	sb.WriteString("Cover trending topics, hook patterns, content angles, calls to action, and hashtag clusters.\n\n")
	sb.WriteString("Reply with exactly this JSON shape and nothing else. No markdown fences, no commentary:\n")
	sb.WriteString(insightSchema)
	return sb.String()
}

// ContentConfig configures a content generation prompt.
type ContentConfig struct {
	Platform string
	Tone     string
	Audience string
	Product  string
	Brand    string
	Message  string
	Language string
}

const contentSchema = `{
  "caption": "ready-to-post caption",
  "hashtags": ["tag1", "tag2"],
  "cta": "call to action",
  "hooks": ["alternative opening line"]
}`

// Content builds the content generation prompt.
func Content(cfg ContentConfig) string {
	tone := withDefault(cfg.Tone, defaultTone)
	lang := withDefault(cfg.Language, defaultLanguage)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a social media copywriter. Draft a %s post.\n", withDefault(cfg.Platform, "social media"))
	fmt.Fprintf(&sb, "Tone: %s.\n", tone)
	if cfg.Audience != "" {
		fmt.Fprintf(&sb, "Audience: %s.\n", cfg.Audience)
	}
	if cfg.Product != "" {
		fmt.Fprintf(&sb, "Product: %s.\n", cfg.Product)
	}
	if cfg.Brand != "" {
		fmt.Fprintf(&sb, "Brand: %s.\n", cfg.Brand)
	}
	if cfg.Message != "" {
		fmt.Fprintf(&sb, "Core message: %s.\n", cfg.Message)
	}
	fmt.Fprintf(&sb, "Write in %s.\n\n", lang)
	sb.WriteString("Reply with exactly this JSON shape and nothing else. No markdown fences, no commentary:\n")
	sb.WriteString(contentSchema)
	return sb.String()
}

// ImageEditConfig configures a single-image edit instruction.
type ImageEditConfig struct {
	Prompt        string
	PreserveStyle bool
}

// ImageEdit builds the instruction for editing one image.
func ImageEdit(cfg ImageEditConfig) string {
	var sb strings.Builder
	sb.WriteString("Edit the provided image as follows: ")
	sb.WriteString(strings.TrimSpace(cfg.Prompt))
	if cfg.PreserveStyle {
		sb.WriteString("\nPreserve the original artistic style, color palette and composition as closely as possible.")
	}
	sb.WriteString("\nReturn only the edited image.")
	return sb.String()
}

// ImageCombineConfig configures a multi-image combine instruction.
type ImageCombineConfig struct {
	Prompt string
	Layout string
	Style  string
	Count  int
}

// ImageCombine builds the instruction for merging several images.
func ImageCombine(cfg ImageCombineConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Combine the %d provided images into a single cohesive image: %s", cfg.Count, strings.TrimSpace(cfg.Prompt))
	if cfg.Layout != "" {
		fmt.Fprintf(&sb, "\nLayout: %s.", cfg.Layout)
	}
	if cfg.Style != "" {
		fmt.Fprintf(&sb, "\nStyle: %s.", cfg.Style)
	}
	sb.WriteString("\nReturn only the combined image.")
	return sb.String()
}

// ImageMaskConfig configures a masked-edit instruction.
type ImageMaskConfig struct {
	Prompt          string
	MaskDescription string
	HasMaskImage    bool
}

// ImageMask builds the instruction for a masked edit. When a mask image
// accompanies the call the second image is declared to be the mask;
// otherwise the region is described in words.
func ImageMask(cfg ImageMaskConfig) string {
	var sb strings.Builder
	sb.WriteString("Edit only part of the first provided image: ")
	sb.WriteString(strings.TrimSpace(cfg.Prompt))
	if cfg.HasMaskImage {
		sb.WriteString("\nThe second provided image is a mask: apply the edit only where the mask is white, leave everything else untouched.")
	} else if cfg.MaskDescription != "" {
		fmt.Fprintf(&sb, "\nApply the edit only to this region, leave everything else untouched: %s.", cfg.MaskDescription)
	}
	sb.WriteString("\nReturn only the edited image.")
	return sb.String()
}

func withDefault(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return val
}
