// internal/domain/trend/service.go

package trend

import (
	"context"
	"fmt"
)

// Searcher defines the interface for grounded trend search.
type Searcher interface {
	// Search issues a grounded model call and returns a normalized
	// trend response for the given request.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// InsightGenerator defines the interface for trend insight snapshots.
type InsightGenerator interface {
	// Generate produces a normalized trend snapshot for a platform,
	// content type and audience.
	Generate(ctx context.Context, req InsightRequest) (*InsightsResponse, error)
}

// ContentGenerator defines the interface for content drafting.
type ContentGenerator interface {
	// GenerateContent produces a normalized content draft.
	GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error)
}

// UnparseableOutputError reports that the model's reply could not be
// parsed as the expected JSON. Raw carries a truncated copy of the
// offending text for diagnostics.
type UnparseableOutputError struct {
	Raw string
}

func (e *UnparseableOutputError) Error() string {
	return fmt.Sprintf("unparseable model output: %.80s", e.Raw)
}
