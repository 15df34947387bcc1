// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/digest-relay/pkg/types"
)

// Report summarizes one run for the CLI.
type Report struct {
	Outcome         Outcome               `json:"outcome" yaml:"outcome"`
	Video           *types.VideoCandidate `json:"video,omitempty" yaml:"video,omitempty"`
	CacheHit        bool                  `json:"cache_hit" yaml:"cache_hit"`
	TranscriptChars int                   `json:"transcript_chars" yaml:"transcript_chars"`
	SessionID       string                `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ContextUsed     bool                  `json:"context_used" yaml:"context_used"`
	Embeds          int                   `json:"embeds" yaml:"embeds"`
	Batches         int                   `json:"batches" yaml:"batches"`
}

// Format writes the report in the requested format: "table" (default),
// "json", or "yaml".
func (r *Report) Format(w io.Writer, format string) error {
	switch format {
	case "", "table":
		return r.formatTable(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		return yaml.NewEncoder(w).Encode(r)
	default:
		return fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
	}
}

func (r *Report) formatTable(w io.Writer) error {
	fmt.Fprintf(w, "Outcome:          %s\n", r.Outcome)
	if r.Video != nil {
		fmt.Fprintf(w, "Video:            %s\n", r.Video.Title)
		fmt.Fprintf(w, "Link:             %s\n", r.Video.Link)
		fmt.Fprintf(w, "Published:        %s\n", r.Video.PublishedAt)
		fmt.Fprintf(w, "Transcript chars: %d (cache hit: %v)\n", r.TranscriptChars, r.CacheHit)
	}
	if r.Outcome == OutcomeDelivered {
		fmt.Fprintf(w, "Session:          %s (context used: %v)\n", r.SessionID, r.ContextUsed)
		fmt.Fprintf(w, "Delivered:        %d embed(s) in %d batch(es)\n", r.Embeds, r.Batches)
	}
	return nil
}
