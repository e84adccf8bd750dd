package spotify

import (
	"testing"

	"go.uber.org/zap"

	"tunedrop/internal/core"
)

func TestExtractPlaylistID(t *testing.T) {
	client := NewClient(&core.SpotifyConfig{}, zap.NewNop())

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "standard playlist URL",
			url:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "playlist URL with query parameters",
			url:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			want: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "playlist URI",
			url:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			want: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "URL without scheme",
			url:  "open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "URL with surrounding whitespace",
			url:  "  https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M  ",
			want: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:    "track URL is not a playlist",
			url:     "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh",
			wantErr: true,
		},
		{
			name:    "unrelated URL",
			url:     "https://example.com/playlist",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ExtractPlaylistID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractPlaylistID(%q) expected error, got %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractPlaylistID(%q) failed: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseAddedAt(t *testing.T) {
	got := parseAddedAt("2026-03-01T12:00:00Z")
	if got.IsZero() {
		t.Error("parseAddedAt should parse a valid timestamp")
	}
	if got.Year() != 2026 || got.Month() != 3 {
		t.Errorf("parseAddedAt returned %v", got)
	}

	if !parseAddedAt("").IsZero() {
		t.Error("parseAddedAt of empty string should be zero")
	}
	if !parseAddedAt("not-a-time").IsZero() {
		t.Error("parseAddedAt of garbage should be zero")
	}
}
