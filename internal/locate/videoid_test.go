// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import "testing"

func TestVideoIDFromLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=JB5FbXxSZ3o", "JB5FbXxSZ3o", false},
		{"watch url with extra params", "https://www.youtube.com/watch?v=abc123&t=42s", "abc123", false},
		{"short link", "https://youtu.be/abc123", "abc123", false},
		{"short link with query", "https://youtu.be/abc123?si=share", "abc123", false},
		{"short link host uppercase", "https://YOUTU.BE/abc123", "abc123", false},
		{"short link without id", "https://youtu.be/", "", true},
		{"watch url without v", "https://www.youtube.com/watch?list=PL123", "", true},
		{"unrelated url", "https://example.com/video/5", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VideoIDFromLink(tt.link)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("VideoIDFromLink(%q) = %q, want error", tt.link, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("VideoIDFromLink(%q) error: %v", tt.link, err)
			}
			if got != tt.want {
				t.Errorf("VideoIDFromLink(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}

func TestWatchLinkRoundTrip(t *testing.T) {
	link := WatchLink("JB5FbXxSZ3o")
	if link != "https://www.youtube.com/watch?v=JB5FbXxSZ3o" {
		t.Fatalf("WatchLink() = %q", link)
	}

	id, err := VideoIDFromLink(link)
	if err != nil {
		t.Fatalf("VideoIDFromLink(WatchLink()) error: %v", err)
	}
	if id != "JB5FbXxSZ3o" {
		t.Errorf("round trip id = %q, want JB5FbXxSZ3o", id)
	}
}
