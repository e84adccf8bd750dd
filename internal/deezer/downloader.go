package deezer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunedrop/internal/core"
)

// audioExtensions are the formats deemix is known to produce.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".opus": true,
}

// Downloader fetches audio by resolving the track on Deezer and running the
// deemix CLI into an isolated per-job directory, so the produced file can be
// identified without diffing a shared download folder.
type Downloader struct {
	config *core.DeezerConfig
	client *Client
	logger *zap.Logger
}

func NewDownloader(config *core.DeezerConfig, client *Client, logger *zap.Logger) *Downloader {
	return &Downloader{
		config: config,
		client: client,
		logger: logger,
	}
}

// Fetch implements core.Fetcher. The returned file lives in the download
// directory; the caller removes it after delivery.
func (d *Downloader) Fetch(ctx context.Context, track core.Track) (string, error) {
	link, err := d.client.FindTrack(ctx, track)
	if err != nil {
		return "", err
	}

	jobDir := filepath.Join(d.config.DownloadDir, "job-"+uuid.NewString())
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return "", fmt.Errorf("creating job directory: %w", err)
	}
	defer os.RemoveAll(jobDir)

	runCtx := ctx
	if d.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.config.FetchTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, d.config.DeemixPath, link, "-p", jobDir, "-b", d.config.Bitrate)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("deemix timed out after %s", d.config.FetchTimeout)
		}
		return "", fmt.Errorf("deemix failed: %w: %s", err, truncateOutput(output))
	}

	produced, err := findAudioFile(jobDir)
	if err != nil {
		return "", fmt.Errorf("deemix produced no audio file for %s: %w", link, err)
	}

	dest := filepath.Join(d.config.DownloadDir, track.ID+filepath.Ext(produced))
	if err := os.Rename(produced, dest); err != nil {
		return "", fmt.Errorf("moving downloaded file: %w", err)
	}

	d.logger.Info("Downloaded track",
		zap.String("track", track.ID),
		zap.String("link", link),
		zap.String("path", dest))

	return dest, nil
}

// SaveARL persists the ARL token where deemix reads it and remembers it for
// this process.
func (d *Downloader) SaveARL(arl string) error {
	arl = strings.TrimSpace(arl)
	if arl == "" {
		return fmt.Errorf("empty ARL token")
	}

	configDir := d.config.ConfigDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "deemix")
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating deemix config directory: %w", err)
	}

	arlPath := filepath.Join(configDir, ".arl")
	if err := os.WriteFile(arlPath, []byte(arl), 0o600); err != nil {
		return fmt.Errorf("writing ARL file: %w", err)
	}

	d.config.ARL = arl
	d.logger.Info("ARL token saved", zap.String("path", arlPath))
	return nil
}

// HasARL reports whether a download credential is configured.
func (d *Downloader) HasARL() bool {
	if d.config.ARL != "" {
		return true
	}

	configDir := d.config.ConfigDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		configDir = filepath.Join(home, ".config", "deemix")
	}

	info, err := os.Stat(filepath.Join(configDir, ".arl"))
	return err == nil && info.Size() > 0
}

// findAudioFile returns the largest audio file under dir. deemix nests
// output in artist/album folders, so the walk is recursive.
func findAudioFile(dir string) (string, error) {
	var best string
	var bestSize int64

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.Size() > bestSize {
			best = path
			bestSize = info.Size()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no audio file under %s", dir)
	}
	return best, nil
}

func truncateOutput(output []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(output))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
