package trend

// Platform identifies a supported social platform. The zero value means
// no platform filter was requested.
type Platform string

const (
	PlatformNone      Platform = ""
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
)

// Evidence is a URL+title pair the model cites to support a claimed trend.
type Evidence struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Platform    Platform `json:"platform,omitempty"`
	PublishedAt string   `json:"publishedAt,omitempty"`
}

// Sentiment holds best-effort sentiment scores. Components are not
// normalized and need not sum to 100.
type Sentiment struct {
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
	Label    string `json:"label"`
}

// Engagement is the model's coarse engagement estimate for a trend.
type Engagement struct {
	Estimated string `json:"estimated"`
	Reason    string `json:"reason"`
}

// PlatformHint suggests where and what to search to follow a trend.
type PlatformHint struct {
	Platform Platform `json:"platform"`
	Query    string   `json:"query"`
}

// Item is a single normalized trend.
type Item struct {
	Topic        string       `json:"topic"`
	KeyTopic     string       `json:"keyTopic"`
	Scale        float64      `json:"scale"`
	Sentiment    Sentiment    `json:"sentiment"`
	Hashtags     []string     `json:"hashtags"`
	Engagement   Engagement   `json:"engagement"`
	Evidence     []Evidence   `json:"evidence"`
	PlatformHint PlatformHint `json:"platformHint"`
}

// SearchRequest carries the parameters of a trend search.
type SearchRequest struct {
	Query    string
	Mode     string
	Platform string
	Topic    string
	Language string
	Country  string
	Days     int
}

// SearchResponse is the normalized reply of a trend search. It is
// constructed fresh per request and never persisted.
type SearchResponse struct {
	Trends     []Item `json:"trends"`
	Summary    string `json:"summary"`
	SearchedAt string `json:"searchedAt"`
	Platform   string `json:"platform"`
	Topic      string `json:"topic"`
	Language   string `json:"language"`
}

// InsightRequest carries the parameters of an insight generation call.
type InsightRequest struct {
	Platform       string
	ContentType    string
	TargetAudience string
	Product        string
	Brand          string
	Message        string
}

// Topic is a trending topic within an insight snapshot.
type Topic struct {
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

// HashtagCluster groups related hashtags under a theme.
type HashtagCluster struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// InsightsResponse is the trend snapshot returned by the insights
// endpoint: topics, hook patterns, angle patterns, a CTA bank and
// hashtag clusters.
type InsightsResponse struct {
	TrendTopics     []Topic          `json:"trendTopics"`
	HookPatterns    []string         `json:"hookPatterns"`
	AnglePatterns   []string         `json:"anglePatterns"`
	CTABank         []string         `json:"ctaBank"`
	HashtagClusters []HashtagCluster `json:"hashtagClusters"`
	Summary         string           `json:"summary"`
	Platform        string           `json:"platform"`
	ContentType     string           `json:"contentType"`
	TargetAudience  string           `json:"targetAudience"`
	GeneratedAt     string           `json:"generatedAt"`
}

// ContentRequest carries the parameters of a content generation call.
type ContentRequest struct {
	Platform string
	Tone     string
	Audience string
	Product  string
	Brand    string
	Message  string
	Language string
}

// ContentResponse is a normalized content draft.
type ContentResponse struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	CTA      string   `json:"cta"`
	Hooks    []string `json:"hooks"`
	Platform string   `json:"platform"`
	Language string   `json:"language"`
}
