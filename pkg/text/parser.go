// Package text provides text normalization and URL extraction for
// Telegram commands.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	urlRegex   = regexp.MustCompile(`https?://\S+`)
	spaceRegex = regexp.MustCompile(`\s+`)

	playlistDomains = map[string]bool{
		"open.spotify.com": true,
		"spotify.com":      true,
	}
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Normalize trims the text, applies NFKC normalization and collapses
// whitespace so that copy-pasted commands parse reliably.
func (p *Parser) Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)
	text = spaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	var normalizedLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			normalizedLines = append(normalizedLines, line)
		}
	}

	return strings.Join(normalizedLines, " ")
}

// ExtractURLs returns all URLs found in the text, cleaned of tracking
// parameters.
func (p *Parser) ExtractURLs(text string) []string {
	matches := urlRegex.FindAllString(p.Normalize(text), -1)
	var cleanURLs []string

	for _, match := range matches {
		cleanURL := p.cleanURL(match)
		if cleanURL != "" {
			cleanURLs = append(cleanURLs, cleanURL)
		}
	}

	return cleanURLs
}

func (p *Parser) cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;)")

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Host == "" {
		return ""
	}

	q := u.Query()

	utmParams := []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}
	for _, param := range utmParams {
		q.Del(param)
	}

	// Spotify share links carry an "si" tracking token
	q.Del("si")

	u.RawQuery = q.Encode()

	return u.String()
}

// IsPlaylistURL reports whether the URL points at a Spotify playlist.
func (p *Parser) IsPlaylistURL(rawURL string) bool {
	if strings.Contains(rawURL, "spotify:playlist:") {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())

	if playlistDomains[hostname] {
		return strings.Contains(u.Path, "/playlist/")
	}

	return false
}
