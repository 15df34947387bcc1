// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TranscriptDocument is the transcript provider's response for one video.
// The JSON tags match the provider's wire format so the raw cached response
// decodes directly into this struct.
type TranscriptDocument struct {
	// Lang is the transcript language hint (e.g. "th"). May be empty.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// AvailableLangs lists other languages the provider can serve.
	AvailableLangs []string `json:"availableLangs,omitempty" yaml:"available_langs,omitempty"`

	// Segments holds the timed transcript snippets in provider order.
	// Order is trusted as received; offsets are not re-sorted.
	Segments []Segment `json:"content" yaml:"content"`
}

// Segment is one timed snippet of transcript text.
type Segment struct {
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// Text is the snippet text. Flattening joins these in order.
	Text string `json:"text" yaml:"text"`

	// Offset is the start position in milliseconds.
	Offset float64 `json:"offset" yaml:"offset"`

	// Duration is the snippet length in milliseconds.
	Duration float64 `json:"duration" yaml:"duration"`
}
