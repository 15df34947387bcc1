// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/digest-relay/pkg/types"
)

// unknownSession marks replies whose backend skipped the JSON envelope.
const unknownSession = "unknown"

// ParseError reports a backend response that no parse strategy could
// interpret. Cause is the strict decode error; Preview is a truncated copy
// of the body. Status and URL are filled in by the caller that knows the
// response they came from.
type ParseError struct {
	Cause   error
	Preview string
	Status  int
	URL     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing AI response from %s (status %d): %v; body preview: %s",
		e.URL, e.Status, e.Cause, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// errDecline signals that a strategy does not apply to the body and the
// next one should run. It never escapes Normalize.
var errDecline = errors.New("strategy declined")

// A parseStrategy attempts one interpretation of the backend's bytes. It
// returns errDecline to pass, any other error to record a decode failure,
// or the reply on success.
type parseStrategy func(body []byte) (*types.AIReply, error)

// Normalize converts the backend's raw response into a reply by running the
// parse strategies in order: plain text for bodies that are not JSON at
// all, strict decoding of the envelope, then a salvage pass that decodes
// the substring between the first "{" and the last "}" (the backend
// sometimes appends stray bytes after a valid object). When every strategy
// fails, the returned *ParseError carries the strict decode error and a
// body preview.
func Normalize(body []byte) (*types.AIReply, error) {
	strategies := []parseStrategy{parsePlainText, parseStrict, parseSalvage}

	var cause error
	for _, parse := range strategies {
		reply, err := parse(body)
		if err == nil {
			return reply, nil
		}
		if errors.Is(err, errDecline) {
			continue
		}
		if cause == nil {
			cause = err
		}
	}

	return nil, &ParseError{Cause: cause, Preview: preview(body)}
}

// parsePlainText accepts any body that does not look like JSON and treats
// it verbatim as the answer. Deliberate fallback for a backend known to
// sometimes skip the JSON envelope entirely.
func parsePlainText(body []byte) (*types.AIReply, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return nil, errDecline
	}
	return &types.AIReply{
		Answer:    trimmed,
		SessionID: unknownSession,
	}, nil
}

// parseStrict decodes the body as the reply envelope, rejecting trailing
// data.
func parseStrict(body []byte) (*types.AIReply, error) {
	return decodeReply(body)
}

// parseSalvage retries strict decoding on the substring between the first
// "{" and the last "}".
func parseSalvage(body []byte) (*types.AIReply, error) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end <= start {
		return nil, errDecline
	}
	return decodeReply(body[start : end+1])
}

// decodeReply runs a strict decode: unknown trailing tokens are an error,
// so a truncated or garbage-suffixed body cannot slip through as a
// half-read reply.
func decodeReply(data []byte) (*types.AIReply, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var reply types.AIReply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding reply envelope: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decoding reply envelope: trailing data after JSON value")
	}
	return &reply, nil
}

// preview truncates a body for error messages.
func preview(body []byte) string {
	const limit = 500
	s := strings.TrimSpace(string(body))
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
