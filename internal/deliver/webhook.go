// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/internal/logging"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// BatchError reports which delivery batch exhausted its retries. Earlier
// batches were already accepted by the destination and are not rolled back.
type BatchError struct {
	Batch int
	Total int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("delivering batch %d/%d: %v", e.Batch, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Stats summarizes one delivery for the run report.
type Stats struct {
	Embeds  int
	Batches int
}

// Sender posts embeds to the destination webhook. The webhook URL embeds
// its credential, so log lines and surfaced errors only ever see the masked
// form.
type Sender struct {
	Cfg    types.DeliverConfig
	Client *http.Client
	Policy httpcall.Policy
	Log    *zap.SugaredLogger
}

// webhookPayload is the destination's wire shape for one request.
type webhookPayload struct {
	Content *string `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// Deliver cleans message, chunks it into embeds under the configured
// description budget, and sends the embeds in order, at most ten per
// request. A failed batch stops the run with a *BatchError; batches
// delivered before it stay delivered.
func (s *Sender) Deliver(ctx context.Context, title, message string) (Stats, error) {
	clean := Clean(message)
	embeds := BuildEmbeds(title, clean, s.budget(), s.Cfg.Footer, time.Now())
	batches := Batches(embeds)

	s.log().Infow("delivering summary",
		"webhook", logging.MaskURL(s.Cfg.WebhookURL),
		"chars", len([]rune(clean)),
		"embeds", len(embeds),
		"batches", len(batches))

	for i, batch := range batches {
		if err := s.send(ctx, batch); err != nil {
			return Stats{}, &BatchError{Batch: i + 1, Total: len(batches), Err: err}
		}
		s.log().Debugw("batch accepted", "batch", i+1, "batches", len(batches), "embeds", len(batch))
	}

	return Stats{Embeds: len(embeds), Batches: len(batches)}, nil
}

// send posts one batch through the retry policy.
func (s *Sender) send(ctx context.Context, batch []Embed) error {
	body, err := json.Marshal(webhookPayload{Embeds: batch})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if s.Cfg.UserAgent != "" {
		h.Set("User-Agent", s.Cfg.UserAgent)
	}

	_, err = s.Policy.Do(ctx, s.Client, httpcall.Request{
		Method: http.MethodPost,
		URL:    s.Cfg.WebhookURL,
		Header: h,
		Body:   body,
		LogURL: logging.MaskURL(s.Cfg.WebhookURL),
	})
	return err
}

func (s *Sender) budget() int {
	if s.Cfg.MaxDescription > 0 {
		return s.Cfg.MaxDescription
	}
	return 4000
}

func (s *Sender) log() *zap.SugaredLogger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop().Sugar()
}
