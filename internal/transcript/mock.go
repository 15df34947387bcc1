// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcript

import (
	"fmt"
	"os"

	"github.com/pdiddy/digest-relay/pkg/types"
)

// LoadMock reads a canned transcript response from path. Used in mock mode
// to exercise the pipeline without a transcript provider; mock transcripts
// never enter the cache.
func LoadMock(path string) (*types.TranscriptDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mock transcript %s: %w", path, err)
	}
	return Decode(raw)
}
