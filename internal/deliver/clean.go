// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"encoding/json"
	"strings"
)

// parseFailureNotice replaces an AI answer that arrived as a long broken
// JSON blob of agent internals. Posting the raw trace would confuse the
// channel more than a short notice does.
const parseFailureNotice = "The AI response could not be processed (JSON parsing failed).\n\nPlease try again."

// Clean prepares an AI answer for delivery. Markdown code fences wrapping
// the whole message are stripped; if the remainder is a JSON object with an
// "answer" string field, that field is delivered instead of the envelope.
// A long unparseable body that looks like a raw agent trace (it mentions
// "thought") is replaced with a short notice.
func Clean(message string) string {
	body := stripCodeFence(strings.TrimSpace(message))

	var envelope map[string]any
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		if len(body) > 100 && strings.Contains(body, `"thought"`) {
			return parseFailureNotice
		}
		return body
	}

	if answer, ok := envelope["answer"].(string); ok {
		return answer
	}
	return body
}

// stripCodeFence removes a markdown code fence wrapping the entire string.
// The opening fence line may carry a language tag; anything after the
// closing fence is dropped with it.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	first := strings.Index(s, "\n")
	if first < 0 {
		return s
	}
	last := strings.LastIndex(s, "\n```")
	if last <= first {
		return s
	}
	return s[first+1 : last]
}
