// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize sends transcript text to the conversational AI backend
// and normalizes whatever comes back into a reply. The backend is known to
// answer with a bare string or with stray bytes after the JSON envelope;
// Normalize runs an ordered chain of parse strategies so those quirks never
// fail the pipeline.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// Client calls the AI chat backend. The zero value is not usable; fill
// every field.
type Client struct {
	Cfg    types.SummarizeConfig
	Client *http.Client
	Policy httpcall.Policy
	Log    *zap.SugaredLogger
}

// Summarize sends content to the backend and returns the normalized reply.
// Content longer than the configured rune budget is truncated rather than
// rejected: a lossy summary beats a failed request.
func (c *Client) Summarize(ctx context.Context, content string) (*types.AIReply, error) {
	if c.Cfg.APIKey == "" {
		return nil, fmt.Errorf("summarize.api_key is empty; set the secret before running")
	}

	sent := content
	if r := []rune(content); len(r) > c.Cfg.MaxInputChars && c.Cfg.MaxInputChars > 0 {
		sent = string(r[:c.Cfg.MaxInputChars])
		c.log().Warnw("truncating AI input",
			"chars", len(r), "budget", c.Cfg.MaxInputChars)
	}

	body, err := json.Marshal(c.requestBody(sent))
	if err != nil {
		return nil, fmt.Errorf("encoding AI request: %w", err)
	}

	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("x-api-key", c.Cfg.APIKey)
	if c.Cfg.UserAgent != "" {
		h.Set("User-Agent", c.Cfg.UserAgent)
	}

	res, err := c.Policy.Do(ctx, c.Client, httpcall.Request{
		Method: http.MethodPost,
		URL:    c.Cfg.APIURL,
		Header: h,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("calling AI backend: %w", err)
	}

	reply, err := Normalize(res.Body)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Status = res.Status
			parseErr.URL = c.Cfg.APIURL
		}
		return nil, err
	}

	c.log().Infow("AI reply received",
		"session_id", reply.SessionID,
		"context_used", reply.ContextUsed,
		"answer_chars", len([]rune(reply.Answer)),
		"trace_steps", len(reply.Trace))
	return reply, nil
}

// requestBody builds one of the two body shapes the backend accepts: the
// legacy flat string content, or the structured text-block content newer
// deployments expect. The persona doubles as the user id.
func (c *Client) requestBody(content string) chatRequest {
	msg := chatMessage{Role: "user"}
	if c.Cfg.ContentBlocks {
		msg.Content = []contentBlock{{Type: "text", Text: content}}
	} else {
		msg.Content = content
	}
	return chatRequest{
		Persona:  c.Cfg.Persona,
		UserID:   c.Cfg.Persona,
		Messages: []chatMessage{msg},
	}
}

func (c *Client) log() *zap.SugaredLogger {
	if c.Log != nil {
		return c.Log
	}
	return zap.NewNop().Sugar()
}

// AI chat wire structures.
type chatRequest struct {
	Persona  string        `json:"persona"`
	UserID   string        `json:"user_id"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role string `json:"role"`

	// Content is a string in the flat shape and []contentBlock in the
	// structured shape.
	Content any `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
