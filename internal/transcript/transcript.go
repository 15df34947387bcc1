// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript resolves a watch link to a transcript document. The
// provider's raw response is cached on disk by video id, so repeat runs for
// the same video never touch the network. A mock mode substitutes a canned
// response file for diagnostics.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/internal/locate"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// transcriptAPIBase is the transcript provider's endpoint. Declared as a
// var so tests can substitute an httptest server.
var transcriptAPIBase = "https://api.supadata.ai/v1/transcript"

// Source fetches transcripts cache-first. The zero value is not usable;
// fill every field.
type Source struct {
	Cfg    types.TranscriptConfig
	Client *http.Client
	Policy httpcall.Policy
	Cache  *Cache
	Log    *zap.SugaredLogger
}

// Document returns the transcript for link and whether it came from the
// cache. Mock mode reads the canned file instead and never writes the
// cache. Otherwise the video id extracted from link keys a cache lookup; a
// miss fetches from the provider, and the raw response is cached
// best-effort (a write failure is logged, never surfaced).
func (s *Source) Document(ctx context.Context, link string) (*types.TranscriptDocument, bool, error) {
	if s.Cfg.UseMock {
		doc, err := LoadMock(s.Cfg.MockFile)
		if err != nil {
			return nil, false, err
		}
		s.log().Infow("using mock transcript", "file", s.Cfg.MockFile, "segments", len(doc.Segments))
		return doc, false, nil
	}

	id, err := locate.VideoIDFromLink(link)
	if err != nil {
		return nil, false, err
	}

	if raw, ok := s.Cache.Get(id); ok {
		doc, err := Decode(raw)
		if err == nil {
			s.log().Infow("transcript cache hit", "video_id", id, "segments", len(doc.Segments))
			return doc, true, nil
		}
		s.log().Warnw("cached transcript unreadable, refetching", "video_id", id, "error", err)
	}

	raw, err := s.fetch(ctx, link)
	if err != nil {
		return nil, false, err
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, false, err
	}

	if err := s.Cache.Put(id, raw); err != nil {
		s.log().Warnw("transcript cache write failed", "video_id", id, "error", err)
	} else {
		s.log().Debugw("transcript cached", "video_id", id)
	}

	return doc, false, nil
}

// fetch retrieves the raw transcript response for link from the provider.
func (s *Source) fetch(ctx context.Context, link string) ([]byte, error) {
	if strings.TrimSpace(s.Cfg.APIKey) == "" {
		return nil, fmt.Errorf("transcript.api_key is empty; set the secret before running")
	}

	q := url.Values{}
	q.Set("url", link)

	h := http.Header{}
	h.Set("x-api-key", s.Cfg.APIKey)
	if s.Cfg.UserAgent != "" {
		h.Set("User-Agent", s.Cfg.UserAgent)
	}

	res, err := s.Policy.Do(ctx, s.Client, httpcall.Request{
		Method: http.MethodGet,
		URL:    transcriptAPIBase + "?" + q.Encode(),
		Header: h,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching transcript: %w", err)
	}
	return res.Body, nil
}

func (s *Source) log() *zap.SugaredLogger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop().Sugar()
}

// Decode parses the provider's raw response bytes. Cached entries hold the
// raw bytes verbatim, so cached and live responses decode the same way.
func Decode(raw []byte) (*types.TranscriptDocument, error) {
	var doc types.TranscriptDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing transcript response: %w", err)
	}
	return &doc, nil
}

// Flatten joins segment texts with single spaces, in provider order.
// Every segment contributes; offsets and durations are dropped. Segment
// order is trusted as received, with no re-sorting by offset.
func Flatten(doc *types.TranscriptDocument) string {
	parts := make([]string, 0, len(doc.Segments))
	for _, seg := range doc.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
