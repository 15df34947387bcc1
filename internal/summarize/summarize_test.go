// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// newTestClient points a Client at an AI backend stub.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &Client{
		Cfg: types.SummarizeConfig{
			APIURL:        ts.URL,
			APIKey:        "test-ai-key",
			Persona:       "ks-discord",
			MaxInputChars: 100000,
		},
		Client: ts.Client(),
		Policy: httpcall.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond},
	}
}

func TestSummarizeFlatContentShape(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-ai-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		io.WriteString(w, `{"answer":"the summary","session_id":"s9","context_used":true}`)
	}))

	reply, err := client.Summarize(context.Background(), "transcript text")
	require.NoError(t, err)

	assert.Equal(t, "the summary", reply.Answer)
	assert.Equal(t, "s9", reply.SessionID)
	assert.True(t, reply.ContextUsed)

	assert.Equal(t, "ks-discord", got["persona"])
	assert.Equal(t, "ks-discord", got["user_id"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "transcript text", msg["content"])
}

func TestSummarizeContentBlocksShape(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, `{"answer":"ok","session_id":"s1"}`)
	}))
	client.Cfg.ContentBlocks = true

	_, err := client.Summarize(context.Background(), "transcript text")
	require.NoError(t, err)

	msg := got["messages"].([]any)[0].(map[string]any)
	blocks := msg["content"].([]any)
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]any)
	assert.Equal(t, "text", block["type"])
	assert.Equal(t, "transcript text", block["text"])
}

func TestSummarizeTruncatesLongInput(t *testing.T) {
	var sent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		sent = req.Messages[0].Content
		io.WriteString(w, `{"answer":"ok","session_id":"s1"}`)
	}))
	client.Cfg.MaxInputChars = 10

	// Multi-byte runes: the budget counts characters, not bytes.
	_, err := client.Summarize(context.Background(), strings.Repeat("ลฤ", 20))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ลฤ", 5), sent)
	assert.Equal(t, 10, len([]rune(sent)))
}

func TestSummarizePlainTextResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "the backend forgot its envelope")
	}))

	reply, err := client.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "the backend forgot its envelope", reply.Answer)
	assert.Equal(t, "unknown", reply.SessionID)
}

func TestSummarizeParseErrorCarriesStatusAndURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"answer": [broken`)
	}))

	_, err := client.Summarize(context.Background(), "text")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, http.StatusOK, parseErr.Status)
	assert.Equal(t, client.Cfg.APIURL, parseErr.URL)
}

func TestSummarizeRetriesServerError(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"answer":"ok","session_id":"s1"}`)
	}))

	reply, err := client.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Answer)
	assert.Equal(t, 2, calls)
}

func TestSummarizeRequiresAPIKey(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	client.Cfg.APIKey = ""

	_, err := client.Summarize(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarize.api_key is empty")
}
