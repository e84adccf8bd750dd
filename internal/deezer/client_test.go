package deezer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"tunedrop/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(zap.NewNop())
	client.endpoint = server.URL
	return client
}

func TestFindTrack_PicksBestMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Daft Punk Around the World" {
			t.Errorf("query = %q, want %q", got, "Daft Punk Around the World")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": 1, "title": "Around the World (Karaoke Version)", "link": "https://www.deezer.com/track/1", "duration": 425, "artist": {"name": "Karaoke Stars"}},
				{"id": 2, "title": "Around the World", "link": "https://www.deezer.com/track/2", "duration": 428, "artist": {"name": "Daft Punk"}}
			],
			"total": 2
		}`))
	})

	track := core.Track{
		ID:       "t1",
		Title:    "Around the World",
		Artist:   "Daft Punk",
		Duration: 428 * time.Second,
	}

	link, err := client.FindTrack(context.Background(), track)
	if err != nil {
		t.Fatalf("FindTrack failed: %v", err)
	}
	if link != "https://www.deezer.com/track/2" {
		t.Errorf("FindTrack = %q, want the original artist's hit", link)
	}
}

func TestFindTrack_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [], "total": 0}`))
	})

	_, err := client.FindTrack(context.Background(), core.Track{Title: "Nothing", Artist: "Nobody"})
	if err == nil {
		t.Error("FindTrack should fail when the search returns no hits")
	}
}

func TestFindTrack_RejectsUnrelatedHits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": 9, "title": "Completely Different Song", "link": "https://www.deezer.com/track/9", "duration": 90, "artist": {"name": "Someone Else Entirely"}}
			],
			"total": 1
		}`))
	})

	track := core.Track{
		Title:    "Around the World",
		Artist:   "Daft Punk",
		Duration: 428 * time.Second,
	}

	if _, err := client.FindTrack(context.Background(), track); err == nil {
		t.Error("FindTrack should reject hits below the match threshold")
	}
}

func TestFindTrack_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.FindTrack(context.Background(), core.Track{Title: "x", Artist: "y"}); err == nil {
		t.Error("FindTrack should surface a non-200 response as an error")
	}
}
