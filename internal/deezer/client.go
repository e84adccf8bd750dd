// Package deezer resolves tracks against the Deezer catalog and fetches
// audio through the deemix command line tool.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"tunedrop/internal/core"
	"tunedrop/pkg/fuzzy"
)

const (
	defaultSearchEndpoint = "https://api.deezer.com/search"
	searchTimeout         = 15 * time.Second

	// minMatchScore is the fuzzy score below which the best hit is
	// considered a different song
	minMatchScore = 0.4
)

type searchHit struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Duration int    `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type searchResponse struct {
	Data  []searchHit `json:"data"`
	Total int         `json:"total"`
}

// Client queries the public Deezer search API. No authentication is needed
// for search; the ARL token only matters to the downloader.
type Client struct {
	endpoint   string
	httpClient *http.Client
	normalizer *fuzzy.Normalizer
	logger     *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		endpoint:   defaultSearchEndpoint,
		httpClient: &http.Client{Timeout: searchTimeout},
		normalizer: fuzzy.NewNormalizer(),
		logger:     logger,
	}
}

// FindTrack returns the Deezer link best matching the given track. Hits are
// scored with the fuzzy normalizer so a popular cover or karaoke version
// does not shadow the requested recording.
func (c *Client) FindTrack(ctx context.Context, track core.Track) (string, error) {
	query := fmt.Sprintf("%s %s", track.Artist, track.Title)

	reqURL := fmt.Sprintf("%s?q=%s", c.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deezer search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deezer search returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	if len(result.Data) == 0 {
		return "", fmt.Errorf("no deezer results for %q", query)
	}

	best, score := c.bestHit(track, result.Data)
	if score < minMatchScore {
		return "", fmt.Errorf("no deezer hit matched %q (best score %.2f)", query, score)
	}

	c.logger.Debug("Resolved track on Deezer",
		zap.String("query", query),
		zap.String("link", best.Link),
		zap.Float64("score", score))

	return best.Link, nil
}

func (c *Client) bestHit(track core.Track, hits []searchHit) (searchHit, float64) {
	best := hits[0]
	bestScore := c.scoreHit(track, hits[0])

	for _, hit := range hits[1:] {
		if score := c.scoreHit(track, hit); score > bestScore {
			best = hit
			bestScore = score
		}
	}
	return best, bestScore
}

func (c *Client) scoreHit(track core.Track, hit searchHit) float64 {
	wantTitle := c.normalizer.NormalizeTitle(track.Title)
	wantArtist := c.normalizer.NormalizeArtist(track.Artist)
	gotTitle := c.normalizer.NormalizeTitle(hit.Title)
	gotArtist := c.normalizer.NormalizeArtist(hit.Artist.Name)

	score := 0.6*c.normalizer.CalculateSimilarity(wantTitle, gotTitle) +
		0.3*c.normalizer.CalculateSimilarity(wantArtist, gotArtist)

	if track.Duration > 0 && hit.Duration > 0 {
		hitDuration := time.Duration(hit.Duration) * time.Second
		score += 0.1 * c.normalizer.DurationTolerance(track.Duration, hitDuration)
	}

	return score
}
