// Package fuzzy normalizes track metadata and scores how well two tracks
// match. Search hits from different catalogs rarely agree on punctuation,
// featuring credits or version suffixes, so titles and artists are reduced
// to a comparable form before scoring.
package fuzzy

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]?\s*`)
	remixRegex      = regexp.MustCompile(`(?i)\s*[\(\[]?\s*.*remix.*[\)\]]?\s*`)
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(remaster|remastered|deluxe|extended|radio edit|clean|explicit).*[\)\]]?\s*`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

const (
	durationTolerance = 30 * time.Second
	durationMaxDiff   = 2 * time.Minute
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = n.basicNormalize(artist)

	artist = strings.ReplaceAll(artist, " and ", " & ")
	artist = strings.ReplaceAll(artist, " vs ", " vs. ")
	artist = strings.ReplaceAll(artist, " feat ", " feat. ")
	artist = strings.ReplaceAll(artist, " ft ", " ft. ")

	return artist
}

// NormalizeTitle strips featuring credits, remix tags and version suffixes
// so that catalog variants of the same recording compare equal.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = n.basicNormalize(title)

	title = featRegex.ReplaceAllString(title, "")
	title = remixRegex.ReplaceAllString(title, "")
	title = versionRegex.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}

func (n *Normalizer) basicNormalize(text string) string {
	// NFKD plus mark removal folds accented characters to ASCII
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(strings.ToLower(text))
}

// CalculateSimilarity returns a score in [0,1] based on the longest common
// subsequence of the two strings.
func (n *Normalizer) CalculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	return float64(n.longestCommonSubsequence(s1, s2)) / float64(max(len(s1), len(s2)))
}

func (n *Normalizer) longestCommonSubsequence(s1, s2 string) int {
	rows, cols := len(s1), len(s2)
	dp := make([][]int, rows+1)
	for i := range dp {
		dp[i] = make([]int, cols+1)
	}

	for i := 1; i <= rows; i++ {
		for j := 1; j <= cols; j++ {
			if s1[i-1] == s2[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	return dp[rows][cols]
}

// DurationTolerance scores how closely two track lengths agree. Differences
// under 30 seconds count as a full match, everything beyond two minutes as
// no match.
func (n *Normalizer) DurationTolerance(d1, d2 time.Duration) float64 {
	diff := d1 - d2
	if diff < 0 {
		diff = -diff
	}

	if diff <= durationTolerance {
		return 1.0
	}
	if diff >= durationMaxDiff {
		return 0.0
	}

	return 1.0 - float64(diff-durationTolerance)/float64(durationMaxDiff-durationTolerance)
}
