// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// feedAPIBase is the public Atom feed endpoint. Declared as a var so tests
// can substitute an httptest server.
var feedAPIBase = "https://www.youtube.com/feeds/videos.xml"

// FeedBackend lists channel videos from the public Atom feed. It needs no
// API key, at the cost of the provider's fixed feed ordering and page size.
type FeedBackend struct {
	Client *http.Client
	Policy httpcall.Policy
}

// Name returns the backend identifier.
func (b *FeedBackend) Name() string { return "feed" }

// Recent fetches and parses the channel feed. Feed entries arrive newest
// first, matching the Data API's order=date.
func (b *FeedBackend) Recent(ctx context.Context, cfg types.LocateConfig) ([]types.VideoCandidate, error) {
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("locate.channel_id is empty; set it before running")
	}

	q := url.Values{}
	q.Set("channel_id", cfg.ChannelID)

	res, err := b.Policy.Do(ctx, b.Client, httpcall.Request{
		Method: http.MethodGet,
		URL:    feedAPIBase + "?" + q.Encode(),
		Header: userAgentHeader(cfg.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("channel feed: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing channel feed: %w", err)
	}

	max := cfg.MaxResults
	if max <= 0 {
		max = 5
	}

	var candidates []types.VideoCandidate
	for _, item := range feed.Items {
		if len(candidates) >= max {
			break
		}
		id := feedVideoID(item)
		if id == "" {
			continue
		}
		candidates = append(candidates, types.VideoCandidate{
			ID:          id,
			Link:        WatchLink(id),
			Title:       item.Title,
			PublishedAt: item.Published,
		})
	}
	return candidates, nil
}

// feedVideoID reads the yt:videoId extension, falling back to extraction
// from the entry link.
func feedVideoID(item *gofeed.Item) string {
	if ns, ok := item.Extensions["yt"]; ok {
		if ids, ok := ns["videoId"]; ok && len(ids) > 0 && ids[0].Value != "" {
			return ids[0].Value
		}
	}
	if item.Link != "" {
		if id, err := VideoIDFromLink(item.Link); err == nil {
			return id
		}
	}
	return ""
}
