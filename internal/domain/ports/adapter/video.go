package adapter

import (
	"context"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
)

// VideoFinder is the port for the external video-search capability.
type VideoFinder interface {
	// FindVideo returns the best match for a free-text query, or (nil, nil)
	// when no suitable candidate exists or any upstream call fails.
	// Enrichment is best-effort: callers never see a fault.
	FindVideo(ctx context.Context, query string) (*model.VideoMatch, error)
}
