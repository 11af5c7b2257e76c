// Package platform resolves free-text platform names and enforces
// per-platform source allow-lists on trend responses.
package platform

import (
	"regexp"
	"strings"

	"trendlens/internal/domain/trend"
)

// Match priority is fixed: tiktok before youtube before linkedin before
// instagram.
var matchOrder = []trend.Platform{
	trend.PlatformTikTok,
	trend.PlatformYouTube,
	trend.PlatformLinkedIn,
	trend.PlatformInstagram,
}

var allowedDomains = map[trend.Platform][]string{
	trend.PlatformInstagram: {"instagram.com"},
	trend.PlatformTikTok:    {"tiktok.com", "vt.tiktok.com", "vm.tiktok.com"},
	trend.PlatformYouTube:   {"youtube.com", "youtu.be"},
	trend.PlatformLinkedIn:  {"linkedin.com"},
}

// Canonical tiktok video URL shape, e.g. tiktok.com/@user/video/123.
var tiktokVideoRe = regexp.MustCompile(`tiktok\.com/@[^/]+/video/\d+`)

// Normalize maps free text to a platform tag by substring containment,
// case-insensitive. Unknown or empty text maps to PlatformNone, meaning
// no platform filter.
func Normalize(text string) trend.Platform {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return trend.PlatformNone
	}
	for _, p := range matchOrder {
		if strings.Contains(lowered, string(p)) {
			return p
		}
	}
	return trend.PlatformNone
}

// AllowedDomains returns the hostnames considered valid evidence for a
// platform. Nil for PlatformNone.
func AllowedDomains(p trend.Platform) []string {
	return allowedDomains[p]
}

// URLAllowed reports whether url matches the platform's allow-list.
func URLAllowed(url string, p trend.Platform) bool {
	for _, domain := range allowedDomains[p] {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}

// IsTikTokVideoURL reports whether url has the canonical tiktok video
// path shape.
func IsTikTokVideoURL(url string) bool {
	return tiktokVideoRe.MatchString(url)
}

// EnforceSources filters every trend item's evidence down to entries
// whose URL matches the platform's allow-list. For tiktok, video-shaped
// links are preferred exclusively over other tiktok links (hashtag
// pages and the like) when at least one exists. Items whose evidence
// empties out are kept; dropping them is a later normalization step.
// No-op when p is PlatformNone. Idempotent.
func EnforceSources(resp *trend.SearchResponse, p trend.Platform) {
	if resp == nil || p == trend.PlatformNone {
		return
	}

	for i := range resp.Trends {
		item := &resp.Trends[i]

		kept := item.Evidence[:0]
		for _, ev := range item.Evidence {
			if URLAllowed(ev.URL, p) {
				kept = append(kept, ev)
			}
		}
		item.Evidence = kept

		if p != trend.PlatformTikTok {
			continue
		}

		videos := make([]trend.Evidence, 0, len(item.Evidence))
		for _, ev := range item.Evidence {
			if IsTikTokVideoURL(ev.URL) {
				videos = append(videos, ev)
			}
		}
		if len(videos) > 0 {
			item.Evidence = videos
		}
	}
}

// MatchingURLCount returns the number of evidence URLs across all trend
// items that match the platform's allow-list. Used to decide the
// single-shot retry after enforcement.
func MatchingURLCount(resp *trend.SearchResponse, p trend.Platform) int {
	if resp == nil || p == trend.PlatformNone {
		return 0
	}
	count := 0
	for _, item := range resp.Trends {
		for _, ev := range item.Evidence {
			if URLAllowed(ev.URL, p) {
				count++
			}
		}
	}
	return count
}
