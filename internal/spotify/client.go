// Package spotify provides the playlist source backed by the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"tunedrop/internal/core"
)

const (
	// PlaylistPageLimit is the page size for playlist item pagination
	PlaylistPageLimit = 100
	// SpotifyIDLength is the expected length of a Spotify playlist/track ID
	SpotifyIDLength = 22
)

var (
	spotifyPlaylistRegex = regexp.MustCompile(`(?:https?://)?(?:open\.)?spotify\.com/playlist/([a-zA-Z0-9]+)`)
	spotifyURIRegex      = regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`)
)

// Client reads playlist metadata and track pages. Authentication uses the
// client-credentials flow; no user token is involved because the bot only
// reads public playlists.
type Client struct {
	config *core.SpotifyConfig
	logger *zap.Logger
	client *spotify.Client
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	creds := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("client credentials exchange failed: %w", err)
	}

	// creds.Client refreshes the token transparently on expiry
	c.client = spotify.New(creds.Client(ctx))

	c.logger.Info("Authenticated with Spotify",
		zap.Time("tokenExpiry", token.Expiry))
	return nil
}

func (c *Client) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not authenticated")
	}

	playlist, err := c.client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return "", fmt.Errorf("failed to get playlist: %w", err)
	}

	return playlist.Name, nil
}

func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	spotifyPlaylistID := spotify.ID(playlistID)
	var allTracks []core.Track
	offset := 0

	for {
		items, err := c.client.GetPlaylistItems(ctx, spotifyPlaylistID,
			spotify.Limit(PlaylistPageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist items: %w", err)
		}

		for i := range items.Items {
			// Only process tracks (not episodes or null items)
			if items.Items[i].Track.Track == nil {
				continue
			}
			track := c.convertSpotifyTrack(items.Items[i].Track.Track)
			track.AddedAt = parseAddedAt(items.Items[i].AddedAt)
			allTracks = append(allTracks, track)
		}

		if len(items.Items) < PlaylistPageLimit {
			break
		}

		offset += PlaylistPageLimit
	}

	c.logger.Info("Retrieved playlist tracks",
		zap.String("playlistID", playlistID),
		zap.Int("count", len(allTracks)))

	return allTracks, nil
}

func (c *Client) ExtractPlaylistID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	if matches := spotifyURIRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		return matches[1], nil
	}

	if matches := spotifyPlaylistRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		return matches[1], nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		if part == "playlist" && i+1 < len(pathParts) {
			playlistID := pathParts[i+1]
			if idx := strings.Index(playlistID, "?"); idx != -1 {
				playlistID = playlistID[:idx]
			}
			return playlistID, nil
		}
	}

	return "", fmt.Errorf("no playlist ID found in URL")
}

func (c *Client) convertSpotifyTrack(track *spotify.FullTrack) core.Track {
	var artists []string
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	return core.Track{
		ID:       string(track.ID),
		Title:    track.Name,
		Artist:   strings.Join(artists, ", "),
		Album:    track.Album.Name,
		Duration: time.Duration(track.Duration) * time.Millisecond,
		URL:      track.ExternalURLs["spotify"],
	}
}

func parseAddedAt(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(spotify.TimestampLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
