// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpcall performs outbound HTTP requests under a shared retry
// policy. Every external call in the pipeline goes through Policy.Do, which
// retries transport failures, server errors (5xx), and rate limiting (429)
// with a linearly growing backoff, and surfaces everything else unchanged.
package httpcall

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultMaxAttempts = 3

// Request describes one outbound call. Do rebuilds the http.Request from
// this description on every attempt, so a retry never reuses a consumed
// body reader.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// LogURL replaces URL in log lines and surfaced errors. Callers set it
	// when URL embeds a credential (webhook URLs). Empty means URL is safe
	// to log.
	LogURL string
}

func (r Request) logURL() string {
	if r.LogURL != "" {
		return r.LogURL
	}
	return r.URL
}

// Result is a successful (2xx) response.
type Result struct {
	Status int
	Body   []byte
}

// Policy is the retry policy shared by all outbound calls. The wait before
// attempt n+1 is BaseDelay * n, so delays grow strictly with each attempt.
type Policy struct {
	// MaxAttempts is the total attempt budget per call. Zero means 3.
	MaxAttempts int

	// BaseDelay is the backoff unit. Tests use a few milliseconds.
	BaseDelay time.Duration

	// Retryable decides whether a response status is retried. Nil means
	// RetryableStatus (429 and 5xx).
	Retryable func(status int) bool

	// Logger records each attempt and its outcome. Nil disables logging.
	Logger *zap.SugaredLogger
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts > 0 {
		return p.MaxAttempts
	}
	return defaultMaxAttempts
}

func (p Policy) retryableStatus(status int) bool {
	if p.Retryable != nil {
		return p.Retryable(status)
	}
	return RetryableStatus(status)
}

// Do performs req under the policy. A 2xx response returns its body. A 4xx
// other than 429 fails immediately with a *StatusError. Transport failures
// and retryable statuses are retried until the attempt budget runs out; the
// final failure keeps its shape, *StatusError when the last attempt produced
// a response and a wrapped transport error otherwise, so callers can tell
// the two apart. The backoff wait returns early when ctx is cancelled.
func (p Policy) Do(ctx context.Context, client *http.Client, req Request) (*Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	max := p.maxAttempts()

	for attempt := 1; ; attempt++ {
		hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader(req.Body))
		if err != nil {
			return nil, fmt.Errorf("creating request for %s: %w", req.logURL(), err)
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				hreq.Header.Add(k, v)
			}
		}

		resp, err := client.Do(hreq)
		if err != nil {
			log.Warnw("request failed",
				"method", req.Method, "url", req.logURL(),
				"attempt", attempt, "max_attempts", max, "error", err)
			if attempt >= max {
				return nil, fmt.Errorf("%s %s after %d attempts: %w", req.Method, req.logURL(), max, err)
			}
			if werr := p.wait(ctx, attempt); werr != nil {
				return nil, werr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			log.Warnw("reading response failed",
				"method", req.Method, "url", req.logURL(),
				"attempt", attempt, "max_attempts", max, "error", readErr)
			if attempt >= max {
				return nil, fmt.Errorf("reading response from %s after %d attempts: %w", req.logURL(), max, readErr)
			}
			if werr := p.wait(ctx, attempt); werr != nil {
				return nil, werr
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Debugw("request succeeded",
				"method", req.Method, "url", req.logURL(),
				"status", resp.StatusCode, "attempt", attempt)
			return &Result{Status: resp.StatusCode, Body: body}, nil
		}

		statusErr := &StatusError{URL: req.logURL(), Status: resp.StatusCode, Body: snippet(body)}

		if !p.retryableStatus(resp.StatusCode) {
			log.Errorw("request rejected",
				"method", req.Method, "url", req.logURL(), "status", resp.StatusCode)
			return nil, statusErr
		}

		log.Warnw("retryable status",
			"method", req.Method, "url", req.logURL(),
			"status", resp.StatusCode, "attempt", attempt, "max_attempts", max)
		if attempt >= max {
			return nil, statusErr
		}
		if werr := p.wait(ctx, attempt); werr != nil {
			return nil, werr
		}
	}
}

// wait sleeps BaseDelay * attempt, or returns ctx.Err() when the context is
// cancelled during the wait.
func (p Policy) wait(ctx context.Context, attempt int) error {
	delay := p.BaseDelay * time.Duration(attempt)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func bodyReader(b []byte) io.Reader {
	if len(b) == 0 {
		return nil
	}
	return bytes.NewReader(b)
}
