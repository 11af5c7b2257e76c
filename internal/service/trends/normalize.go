// internal/service/trends/normalize.go

package trends

import (
	"math"
	"strings"

	"trendlens/internal/domain/trend"
	"trendlens/internal/service/platform"
)

const (
	maxTrends          = 10
	maxEvidence        = 2
	maxTopicHashtags   = 5
	maxClusterHashtags = 12
	maxClusters        = 8
	defaultScale       = 0.75
)

// Meta carries request context echoed back in normalized responses.
type Meta struct {
	Platform string
	Topic    string
	Language string
}

// NormalizeSearch coerces a loosely-shaped model reply into a
// SearchResponse. Absent or wrongly-typed fields become safe defaults;
// nothing here fails. Empty-evidence items are kept; DropWithoutEvidence
// applies that filter after platform enforcement.
func NormalizeSearch(raw map[string]interface{}, meta Meta) *trend.SearchResponse {
	resp := &trend.SearchResponse{
		Trends:   []trend.Item{},
		Summary:  asString(raw["summary"]),
		Platform: meta.Platform,
		Topic:    meta.Topic,
		Language: meta.Language,
	}

	for _, entry := range asSlice(raw["trends"]) {
		if len(resp.Trends) >= maxTrends {
			break
		}
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		resp.Trends = append(resp.Trends, normalizeItem(m))
	}

	return resp
}

func normalizeItem(m map[string]interface{}) trend.Item {
	topic := asString(m["topic"])
	keyTopic := stripWhitespace(asString(m["keyTopic"]))
	if keyTopic == "" {
		keyTopic = stripWhitespace(topic)
	}

	item := trend.Item{
		Topic:      topic,
		KeyTopic:   keyTopic,
		Scale:      clampScale(m["scale"]),
		Sentiment:  normalizeSentiment(asMap(m["sentiment"])),
		Hashtags:   NormalizeHashtags(asSlice(m["hashtags"]), maxTopicHashtags),
		Engagement: normalizeEngagement(asMap(m["engagement"])),
		Evidence:   normalizeEvidence(asSlice(m["evidence"])),
	}

	hint := asMap(m["platformHint"])
	item.PlatformHint = trend.PlatformHint{
		Platform: platform.Normalize(asString(hint["platform"])),
		Query:    asString(hint["query"]),
	}
	if item.PlatformHint.Query == "" {
		item.PlatformHint.Query = topic
	}

	return item
}

func normalizeEvidence(entries []interface{}) []trend.Evidence {
	out := []trend.Evidence{}
	for _, entry := range entries {
		if len(out) >= maxEvidence {
			break
		}
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		url := strings.TrimSpace(asString(m["url"]))
		if url == "" {
			continue
		}
		out = append(out, trend.Evidence{
			Title:       asString(m["title"]),
			URL:         url,
			Platform:    platform.Normalize(asString(m["platform"])),
			PublishedAt: asString(m["publishedAt"]),
		})
	}
	return out
}

func normalizeEngagement(m map[string]interface{}) trend.Engagement {
	est := strings.ToLower(asString(m["estimated"]))
	switch {
	case strings.Contains(est, "high"):
		est = "high"
	case strings.Contains(est, "low"):
		est = "low"
	default:
		est = "medium"
	}
	return trend.Engagement{
		Estimated: est,
		Reason:    asString(m["reason"]),
	}
}

func normalizeSentiment(m map[string]interface{}) trend.Sentiment {
	s := trend.Sentiment{
		Positive: clampPercent(m["positive"]),
		Negative: clampPercent(m["negative"]),
		Neutral:  clampPercent(m["neutral"]),
	}
	s.Label = sentimentLabel(asString(m["label"]), s)
	return s
}

// sentimentLabel matches a textual label by substring, falling back to
// the maximum numeric component. Candidates are evaluated in the order
// neutral, positive, negative with strict greater-than replacement, so
// ties resolve toward the earlier candidate.
func sentimentLabel(text string, s trend.Sentiment) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "neg"):
		return "negative"
	case strings.Contains(lowered, "neu"), strings.Contains(lowered, "mix"):
		return "neutral"
	case strings.Contains(lowered, "pos"):
		return "positive"
	}

	label, best := "neutral", s.Neutral
	if s.Positive > best {
		label, best = "positive", s.Positive
	}
	if s.Negative > best {
		label = "negative"
	}
	return label
}

// NormalizeHashtags strips leading '#', drops empties, de-duplicates
// case-sensitively and caps the result. The cap is endpoint-specific.
func NormalizeHashtags(entries []interface{}, limit int) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if len(out) >= limit {
			break
		}
		tag := strings.TrimSpace(asString(entry))
		tag = strings.TrimPrefix(tag, "#")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// DropWithoutEvidence removes trend items left with zero evidence URLs.
// This is the authoritative place the evidence invariant is enforced
// for the search endpoint, applied after platform enforcement.
func DropWithoutEvidence(resp *trend.SearchResponse) {
	kept := resp.Trends[:0]
	for _, item := range resp.Trends {
		if len(item.Evidence) > 0 {
			kept = append(kept, item)
		}
	}
	resp.Trends = kept
}

// NormalizeInsights coerces a loosely-shaped model reply into an
// insight snapshot.
func NormalizeInsights(raw map[string]interface{}, req trend.InsightRequest, generatedAt string) *trend.InsightsResponse {
	resp := &trend.InsightsResponse{
		TrendTopics:     []trend.Topic{},
		HookPatterns:    asStringSlice(raw["hookPatterns"], maxTrends),
		AnglePatterns:   asStringSlice(raw["anglePatterns"], maxTrends),
		CTABank:         asStringSlice(raw["ctaBank"], maxTrends),
		HashtagClusters: []trend.HashtagCluster{},
		Summary:         asString(raw["summary"]),
		Platform:        req.Platform,
		ContentType:     req.ContentType,
		TargetAudience:  req.TargetAudience,
		GeneratedAt:     generatedAt,
	}

	for _, entry := range asSlice(raw["trendTopics"]) {
		if len(resp.TrendTopics) >= maxTrends {
			break
		}
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		resp.TrendTopics = append(resp.TrendTopics, trend.Topic{
			Topic:       asString(m["topic"]),
			Description: asString(m["description"]),
			Hashtags:    NormalizeHashtags(asSlice(m["hashtags"]), maxTopicHashtags),
		})
	}

	for _, entry := range asSlice(raw["hashtagClusters"]) {
		if len(resp.HashtagClusters) >= maxClusters {
			break
		}
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		cluster := trend.HashtagCluster{
			Name: asString(m["name"]),
			Tags: NormalizeHashtags(asSlice(m["tags"]), maxClusterHashtags),
		}
		if cluster.Name == "" && len(cluster.Tags) == 0 {
			continue
		}
		resp.HashtagClusters = append(resp.HashtagClusters, cluster)
	}

	return resp
}

// NormalizeContent coerces a loosely-shaped model reply into a content
// draft.
func NormalizeContent(raw map[string]interface{}, req trend.ContentRequest) *trend.ContentResponse {
	return &trend.ContentResponse{
		Caption:  asString(raw["caption"]),
		Hashtags: NormalizeHashtags(asSlice(raw["hashtags"]), maxClusterHashtags),
		CTA:      asString(raw["cta"]),
		Hooks:    asStringSlice(raw["hooks"], maxTrends),
		Platform: req.Platform,
		Language: req.Language,
	}
}

// Coercion helpers. Model output is duck-typed; every accessor
// tolerates nil and wrong types.

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asStringSlice(v interface{}, limit int) []string {
	out := []string{}
	for _, entry := range asSlice(v) {
		if len(out) >= limit {
			break
		}
		if s := strings.TrimSpace(asString(entry)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func clampScale(v interface{}) float64 {
	n, ok := asFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return defaultScale
	}
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func clampPercent(v interface{}) int {
	n, ok := asFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return int(n)
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
