package omdb

import (
	"context"

	"github.com/s0up4200/reelcheck/movie"
)

// API defines the OMDb operations used by the controllers
type API interface {
	// Search returns movies matching a free-text title
	Search(ctx context.Context, query string) ([]movie.Summary, error)

	// LookupByID returns the full record for an external id, before rating normalization
	LookupByID(ctx context.Context, id string) (*movie.Raw, error)
}

var _ API = (*Client)(nil)
