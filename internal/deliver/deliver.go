// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deliver turns a summary into webhook embeds and sends them. Long
// text is chunked into embeds under the destination's description limit,
// embeds are grouped into batches of at most ten, and batches go out
// strictly in order so the destination shows the summary in source order.
package deliver

import (
	"fmt"
	"time"
)

// Presentation constants imposed by the destination.
const (
	// embedColor is the accent color of every embed (Discord blurple).
	embedColor = 0x5865F2

	// maxEmbedsPerRequest is the destination's per-request embed limit.
	maxEmbedsPerRequest = 10

	// fallbackTitle heads the single empty embed sent when there is no
	// summary text; the destination always receives at least one message.
	fallbackTitle = "Daily Summary"
)

// Embed is one formatted message block in the destination's wire shape.
type Embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
	Footer      Footer `json:"footer"`
}

// Footer is the embed footer.
type Footer struct {
	Text string `json:"text"`
}

// BuildEmbeds partitions message into embeds of at most budget characters
// each, counted in runes. Concatenating the descriptions in order
// reproduces message exactly. An empty message yields exactly one embed
// with the fallback title and an empty description. With more than one
// embed, each title is annotated with its (i/total) position.
func BuildEmbeds(title, message string, budget int, footer string, now time.Time) []Embed {
	stamp := Timestamp(now)

	chunks := chunkRunes(message, budget)
	if len(chunks) == 0 {
		return []Embed{{
			Title:     fallbackTitle,
			Color:     embedColor,
			Timestamp: stamp,
			Footer:    Footer{Text: footer},
		}}
	}

	embeds := make([]Embed, 0, len(chunks))
	for i, part := range chunks {
		displayTitle := title
		if len(chunks) > 1 {
			displayTitle = numberedTitle(title, i+1, len(chunks))
		}
		embeds = append(embeds, Embed{
			Title:       displayTitle,
			Description: part,
			Color:       embedColor,
			Timestamp:   stamp,
			Footer:      Footer{Text: footer},
		})
	}
	return embeds
}

// chunkRunes splits s into consecutive pieces of at most budget runes.
// Empty input yields no chunks; BuildEmbeds coerces that to one empty
// embed.
func chunkRunes(s string, budget int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += budget {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Batches groups embeds into delivery batches of at most
// maxEmbedsPerRequest, preserving order across batch boundaries.
func Batches(embeds []Embed) [][]Embed {
	var batches [][]Embed
	for start := 0; start < len(embeds); start += maxEmbedsPerRequest {
		end := start + maxEmbedsPerRequest
		if end > len(embeds) {
			end = len(embeds)
		}
		batches = append(batches, embeds[start:end])
	}
	return batches
}

// Timestamp formats t the way the destination expects: ISO 8601 with
// millisecond precision and the local UTC offset.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000-07:00")
}

func numberedTitle(title string, i, total int) string {
	return fmt.Sprintf("%s (%d/%d)", title, i, total)
}
