// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 8, 24, 12, 0, 0, 123_000_000, time.FixedZone("ICT", 7*3600))

func TestBuildEmbedsSingle(t *testing.T) {
	embeds := BuildEmbeds("KS Forward Ep1", "short summary", 4000, "KS Forward", testTime)

	require.Len(t, embeds, 1)
	// A single embed keeps the unannotated title.
	assert.Equal(t, "KS Forward Ep1", embeds[0].Title)
	assert.Equal(t, "short summary", embeds[0].Description)
	assert.Equal(t, 0x5865F2, embeds[0].Color)
	assert.Equal(t, "2026-08-24T12:00:00.123+07:00", embeds[0].Timestamp)
	assert.Equal(t, "KS Forward", embeds[0].Footer.Text)
}

func TestBuildEmbedsSplitsAndNumbers(t *testing.T) {
	message := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 3)

	embeds := BuildEmbeds("Ep2", message, 10, "KS Forward", testTime)

	require.Len(t, embeds, 3)
	assert.Equal(t, "Ep2 (1/3)", embeds[0].Title)
	assert.Equal(t, "Ep2 (2/3)", embeds[1].Title)
	assert.Equal(t, "Ep2 (3/3)", embeds[2].Title)

	// Concatenated descriptions reproduce the message exactly.
	var rebuilt strings.Builder
	for _, e := range embeds {
		assert.LessOrEqual(t, len([]rune(e.Description)), 10)
		rebuilt.WriteString(e.Description)
	}
	assert.Equal(t, message, rebuilt.String())
}

func TestBuildEmbedsCountsRunesNotBytes(t *testing.T) {
	// Thai runes are three bytes each; a byte-counting splitter would cut
	// mid-character.
	message := strings.Repeat("ก", 15)

	embeds := BuildEmbeds("Ep3", message, 10, "KS Forward", testTime)

	require.Len(t, embeds, 2)
	assert.Equal(t, strings.Repeat("ก", 10), embeds[0].Description)
	assert.Equal(t, strings.Repeat("ก", 5), embeds[1].Description)
}

func TestBuildEmbedsEmptyMessage(t *testing.T) {
	embeds := BuildEmbeds("ignored", "", 4000, "KS Forward", testTime)

	// Never zero embeds: the destination always receives at least one
	// message, with the fallback title and an empty body.
	require.Len(t, embeds, 1)
	assert.Equal(t, "Daily Summary", embeds[0].Title)
	assert.Equal(t, "", embeds[0].Description)
	assert.Equal(t, "KS Forward", embeds[0].Footer.Text)
}

func TestBuildEmbedsExactBudgetBoundary(t *testing.T) {
	embeds := BuildEmbeds("Ep4", strings.Repeat("x", 10), 10, "f", testTime)
	require.Len(t, embeds, 1)
	assert.Equal(t, "Ep4", embeds[0].Title)
}

func TestBatches(t *testing.T) {
	tests := []struct {
		name      string
		embeds    int
		wantSizes []int
	}{
		{"empty", 0, nil},
		{"single partial batch", 3, []int{3}},
		{"exact batch", 10, []int{10}},
		{"spills into second batch", 11, []int{10, 1}},
		{"three batches", 25, []int{10, 10, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embeds := make([]Embed, tt.embeds)
			for i := range embeds {
				embeds[i].Title = string(rune('a' + i%26))
			}

			batches := Batches(embeds)
			require.Len(t, batches, len(tt.wantSizes))

			seen := 0
			for i, batch := range batches {
				assert.Len(t, batch, tt.wantSizes[i])
				// Order is preserved across batch boundaries.
				for _, e := range batch {
					assert.Equal(t, embeds[seen].Title, e.Title)
					seen++
				}
			}
		})
	}
}

func TestTimestampMillisecondPrecision(t *testing.T) {
	utc := time.Date(2026, 1, 14, 5, 6, 7, 89_000_000, time.UTC)
	assert.Equal(t, "2026-01-14T05:06:07.089+00:00", Timestamp(utc))
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes through", "just a summary", "just a summary"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{
			"answer field extracted from JSON",
			`{"answer":"the real text","session_id":"s1"}`,
			"the real text",
		},
		{
			"fenced JSON unwrapped",
			"```json\n{\"answer\":\"fenced answer\"}\n```",
			"fenced answer",
		},
		{
			"fenced plain text unwrapped",
			"```\nhello there\n```",
			"hello there",
		},
		{
			"JSON without answer field kept whole",
			`{"summary":"no answer key"}`,
			`{"summary":"no answer key"}`,
		},
		{
			"short broken JSON kept raw",
			`{"answer": [broken`,
			`{"answer": [broken`,
		},
		{
			"long broken trace replaced by notice",
			`{"step":1,"thought":"` + strings.Repeat("reasoning ", 20) + `"`,
			parseFailureNotice,
		},
		{"unterminated fence kept", "```json\n{\"answer\":\"x\"}", "```json\n{\"answer\":\"x\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
