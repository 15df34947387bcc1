// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the digest-relay pipeline:
// video candidates produced by the locate stage, transcript documents, AI
// replies, and the configuration structs consumed by every stage.
package types

// VideoCandidate is one video selected from a channel listing. Candidates are
// immutable once constructed and discarded when the pipeline run ends.
type VideoCandidate struct {
	// ID is the provider's video identifier (e.g. "JB5FbXxSZ3o").
	ID string `json:"id" yaml:"id"`

	// Link is the canonical watch-page URL derived from ID.
	Link string `json:"link" yaml:"link"`

	// Title is the video title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// PublishedAt is the provider's publish timestamp, kept verbatim.
	PublishedAt string `json:"published_at" yaml:"published_at"`
}
