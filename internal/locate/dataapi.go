// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// Data API endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	searchAPIBase = "https://www.googleapis.com/youtube/v3/search"
	videosAPIBase = "https://www.googleapis.com/youtube/v3/videos"
)

// DataAPIBackend lists channel videos through the provider's Data API and
// resolves single videos for the on-demand entry point.
type DataAPIBackend struct {
	Client *http.Client
	Policy httpcall.Policy
}

// Name returns the backend identifier.
func (b *DataAPIBackend) Name() string { return "api" }

// Recent queries the search endpoint for the channel's newest completed
// videos. order=date keeps the listing newest first.
func (b *DataAPIBackend) Recent(ctx context.Context, cfg types.LocateConfig) ([]types.VideoCandidate, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("locate.api_key is empty; set the secret before running")
	}
	if strings.TrimSpace(cfg.ChannelID) == "" {
		return nil, fmt.Errorf("locate.channel_id is empty; set it before running")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("channelId", cfg.ChannelID)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("order", "date")
	q.Set("type", "video")
	q.Set("eventType", "completed")
	q.Set("key", cfg.APIKey)

	res, err := b.Policy.Do(ctx, b.Client, httpcall.Request{
		Method: http.MethodGet,
		URL:    searchAPIBase + "?" + q.Encode(),
		Header: userAgentHeader(cfg.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("channel search: %w", err)
	}

	var listing searchResponse
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, fmt.Errorf("parsing channel search response: %w", err)
	}

	var candidates []types.VideoCandidate
	for _, item := range listing.Items {
		id := item.ID.value()
		if id == "" {
			continue
		}
		candidates = append(candidates, types.VideoCandidate{
			ID:          id,
			Link:        WatchLink(id),
			Title:       item.Snippet.Title,
			PublishedAt: item.Snippet.publishedTime(),
		})
	}
	return candidates, nil
}

// DetailByLink resolves a watch URL to a single candidate through the
// videos endpoint. The on-demand entry point uses it in place of a channel
// search.
func (b *DataAPIBackend) DetailByLink(ctx context.Context, cfg types.LocateConfig, link string) (*types.VideoCandidate, error) {
	id, err := VideoIDFromLink(link)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", id)
	q.Set("key", cfg.APIKey)

	res, err := b.Policy.Do(ctx, b.Client, httpcall.Request{
		Method: http.MethodGet,
		URL:    videosAPIBase + "?" + q.Encode(),
		Header: userAgentHeader(cfg.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("video detail: %w", err)
	}

	var listing searchResponse
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, fmt.Errorf("parsing video detail response: %w", err)
	}
	if len(listing.Items) == 0 {
		return nil, fmt.Errorf("no video details found for %s", link)
	}

	item := listing.Items[0]
	return &types.VideoCandidate{
		ID:          id,
		Link:        WatchLink(id),
		Title:       item.Snippet.Title,
		PublishedAt: item.Snippet.publishedTime(),
	}, nil
}

func userAgentHeader(ua string) http.Header {
	if ua == "" {
		return nil
	}
	h := http.Header{}
	h.Set("User-Agent", ua)
	return h
}

// Data API wire structures, reduced to the fields the pipeline reads.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      flexibleID    `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchSnippet struct {
	PublishedAt string `json:"publishedAt"`
	Title       string `json:"title"`
	PublishTime string `json:"publishTime"`
}

// publishedTime prefers the search endpoint's publishTime and falls back to
// publishedAt, which is all the videos endpoint returns.
func (s searchSnippet) publishedTime() string {
	if s.PublishTime != "" {
		return s.PublishTime
	}
	return s.PublishedAt
}

// flexibleID decodes the two id shapes the provider returns: a plain string
// from the videos endpoint ("JB5FbXxSZ3o") and an object from the search
// endpoint ({"kind":"youtube#video","videoId":"..."}).
type flexibleID struct {
	Kind    string
	VideoID string
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.VideoID)
	}
	var obj struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	f.Kind = obj.Kind
	f.VideoID = obj.VideoID
	return nil
}

func (f flexibleID) value() string { return f.VideoID }
