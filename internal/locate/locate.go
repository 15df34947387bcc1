// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds the newest video of the monitored series on a
// channel. Listing backends implement the Backend interface: the Data API
// backend queries the provider's search API with a key, the feed backend
// parses the channel's public Atom feed. Selection applies the series title
// prefix to the listing, which providers return newest first.
package locate

import (
	"context"
	"strings"

	"github.com/pdiddy/digest-relay/pkg/types"
)

// Backend lists a channel's recent videos, newest first.
type Backend interface {
	// Name returns the backend identifier for logs.
	Name() string

	// Recent returns the channel's most recent videos in provider order.
	Recent(ctx context.Context, cfg types.LocateConfig) ([]types.VideoCandidate, error)
}

// SelectLatest returns the first candidate whose title starts with prefix,
// or nil when none matches. Candidates arrive newest first, so the first
// match is the latest episode regardless of where non-matching videos sit
// in the listing. An empty prefix matches everything.
func SelectLatest(candidates []types.VideoCandidate, prefix string) *types.VideoCandidate {
	for i := range candidates {
		if strings.HasPrefix(candidates[i].Title, prefix) {
			c := candidates[i]
			return &c
		}
	}
	return nil
}
