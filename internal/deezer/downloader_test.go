package deezer

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"tunedrop/internal/core"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindAudioFile(t *testing.T) {
	dir := t.TempDir()

	// deemix nests output under artist/album directories
	writeFile(t, filepath.Join(dir, "Artist", "Album", "01 - Song.mp3"), 2048)
	writeFile(t, filepath.Join(dir, "Artist", "Album", "cover.jpg"), 4096)
	writeFile(t, filepath.Join(dir, "Artist", "Album", "notes.txt"), 10)

	got, err := findAudioFile(dir)
	if err != nil {
		t.Fatalf("findAudioFile failed: %v", err)
	}
	if filepath.Base(got) != "01 - Song.mp3" {
		t.Errorf("findAudioFile = %s, want the mp3", got)
	}
}

func TestFindAudioFile_PrefersLargest(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "preview.mp3"), 100)
	writeFile(t, filepath.Join(dir, "full.flac"), 9000)

	got, err := findAudioFile(dir)
	if err != nil {
		t.Fatalf("findAudioFile failed: %v", err)
	}
	if filepath.Base(got) != "full.flac" {
		t.Errorf("findAudioFile = %s, want full.flac", got)
	}
}

func TestFindAudioFile_NoAudio(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cover.jpg"), 4096)

	if _, err := findAudioFile(dir); err == nil {
		t.Error("findAudioFile should fail when no audio file exists")
	}
}

func TestSaveARL(t *testing.T) {
	configDir := t.TempDir()
	cfg := &core.DeezerConfig{ConfigDir: configDir}
	d := NewDownloader(cfg, NewClient(zap.NewNop()), zap.NewNop())

	if d.HasARL() {
		t.Error("HasARL should be false before any token is saved")
	}

	if err := d.SaveARL("  abc123token  \n"); err != nil {
		t.Fatalf("SaveARL failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(configDir, ".arl"))
	if err != nil {
		t.Fatalf("reading ARL file failed: %v", err)
	}
	if string(raw) != "abc123token" {
		t.Errorf("ARL file contains %q, want trimmed token", string(raw))
	}

	if cfg.ARL != "abc123token" {
		t.Errorf("config ARL = %q, want the saved token", cfg.ARL)
	}
	if !d.HasARL() {
		t.Error("HasARL should be true after saving")
	}
}

func TestSaveARL_Empty(t *testing.T) {
	d := NewDownloader(&core.DeezerConfig{ConfigDir: t.TempDir()}, NewClient(zap.NewNop()), zap.NewNop())

	if err := d.SaveARL("   "); err == nil {
		t.Error("SaveARL should reject an empty token")
	}
}
