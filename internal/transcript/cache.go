// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcript

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Cache stores one raw provider response per video id under a directory.
// Entries never expire. A concurrent writer for the same id is last-writer-
// wins; writes are not atomic.
type Cache struct {
	Dir string
	Log *zap.SugaredLogger
}

// Get returns the cached raw response for videoID. A read failure other
// than absence is logged and reported as a miss, never as an error: the
// caller falls through to the network.
func (c *Cache) Get(videoID string) ([]byte, bool) {
	raw, err := os.ReadFile(c.path(videoID))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && c.Log != nil {
			c.Log.Warnw("transcript cache read failed", "video_id", videoID, "error", err)
		}
		return nil, false
	}
	return raw, true
}

// Put writes the raw response for videoID, creating the cache directory on
// first use. Callers treat a failure as log-and-continue; caching is an
// optimization, not a correctness requirement.
func (c *Cache) Put(videoID string, raw []byte) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", c.Dir, err)
	}
	if err := os.WriteFile(c.path(videoID), raw, 0o644); err != nil {
		return fmt.Errorf("writing cache entry for %s: %w", videoID, err)
	}
	return nil
}

func (c *Cache) path(videoID string) string {
	return filepath.Join(c.Dir, videoID+".json")
}
