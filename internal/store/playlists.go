package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"tunedrop/internal/core"
)

const playlistDataVersion = 1

type playlistData struct {
	Version   int                      `json:"version"`
	UpdatedAt time.Time                `json:"updated_at"`
	Playlists map[string]core.Playlist `json:"playlists"`
}

// Playlists maps playlist ids to their destination channel and check state,
// backed by a single JSON file.
type Playlists struct {
	path   string
	logger *zap.Logger

	mu   sync.RWMutex
	data playlistData
}

func NewPlaylists(path string, logger *zap.Logger) (*Playlists, error) {
	p := &Playlists{
		path:   path,
		logger: logger,
		data: playlistData{
			Version:   playlistDataVersion,
			Playlists: make(map[string]core.Playlist),
		},
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Playlists) load() error {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Info("No playlist store found, starting empty", zap.String("path", p.path))
			return nil
		}
		return fmt.Errorf("reading playlist store: %w", err)
	}

	if err := json.Unmarshal(raw, &p.data); err != nil {
		return fmt.Errorf("parsing playlist store %s: %w", p.path, err)
	}
	if p.data.Playlists == nil {
		p.data.Playlists = make(map[string]core.Playlist)
	}

	p.logger.Info("Loaded playlist store",
		zap.String("path", p.path),
		zap.Int("playlists", len(p.data.Playlists)))
	return nil
}

func (p *Playlists) saveLocked() error {
	p.data.Version = playlistDataVersion
	p.data.UpdatedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding playlist store: %w", err)
	}
	return writeAtomic(p.path, raw, 0o600)
}

// List returns playlists ordered by when they were added.
func (p *Playlists) List() []core.Playlist {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]core.Playlist, 0, len(p.data.Playlists))
	for _, pl := range p.data.Playlists {
		out = append(out, pl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}

func (p *Playlists) Get(playlistID string) (core.Playlist, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pl, ok := p.data.Playlists[playlistID]
	return pl, ok
}

func (p *Playlists) Add(pl core.Playlist) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.data.Playlists[pl.ID]; ok {
		return fmt.Errorf("playlist %s already configured", pl.ID)
	}
	p.data.Playlists[pl.ID] = pl
	return p.saveLocked()
}

func (p *Playlists) Remove(playlistID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.data.Playlists[playlistID]; !ok {
		return fmt.Errorf("playlist %s not configured", playlistID)
	}
	delete(p.data.Playlists, playlistID)
	return p.saveLocked()
}

func (p *Playlists) Touch(playlistID string, checkedAt time.Time, trackCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.data.Playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s not configured", playlistID)
	}
	pl.LastChecked = checkedAt
	pl.TrackCount = trackCount
	p.data.Playlists[playlistID] = pl
	return p.saveLocked()
}
