// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGetRoundTrip(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}

	raw := []byte(`{"lang":"th","content":[{"text":"hello","offset":0,"duration":1000}]}`)
	require.NoError(t, cache.Put("abc123", raw))

	got, ok := cache.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, raw, got)
}

func TestCacheGetMissing(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}

	_, ok := cache.Get("never-written")
	assert.False(t, ok)
}

func TestCachePutCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "transcripts")
	cache := &Cache{Dir: dir}

	require.NoError(t, cache.Put("abc123", []byte("{}")))

	_, err := os.Stat(filepath.Join(dir, "abc123.json"))
	require.NoError(t, err)
}

func TestCachePutOverwrites(t *testing.T) {
	cache := &Cache{Dir: t.TempDir()}

	require.NoError(t, cache.Put("abc123", []byte("old")))
	require.NoError(t, cache.Put("abc123", []byte("new")))

	got, ok := cache.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, "new", string(got))
}
