// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"fmt"
	"net/url"
	"strings"
)

// watchBase is the canonical watch-page prefix for building links.
const watchBase = "https://www.youtube.com/watch?v="

// WatchLink returns the canonical watch-page URL for a video id.
func WatchLink(id string) string {
	return watchBase + id
}

// VideoIDFromLink extracts the video id from a watch-page URL
// ("...watch?v=ID") or a short link ("https://youtu.be/ID"). The id doubles
// as the transcript cache key, so a link without one is a hard error.
func VideoIDFromLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing video link %q: %w", link, err)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	// Short links carry the id as the first path segment.
	if strings.EqualFold(u.Host, "youtu.be") {
		id := strings.TrimPrefix(u.Path, "/")
		if i := strings.Index(id, "/"); i >= 0 {
			id = id[:i]
		}
		if id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("no video id in link %q", link)
}
