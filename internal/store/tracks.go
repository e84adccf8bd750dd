// Package store provides the persisted playlist and track state plus the
// in-memory sent-set accelerator.
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

const trackDataVersion = 1

type trackData struct {
	Version   int                                    `json:"version"`
	UpdatedAt time.Time                              `json:"updated_at"`
	Playlists map[string]map[string]core.TrackRecord `json:"playlists"`
}

// Tracks is the append-only track record store backed by a single JSON
// file. Every mutation is persisted immediately with an atomic replace.
type Tracks struct {
	path   string
	logger *zap.Logger

	mu   sync.RWMutex
	data trackData
}

func NewTracks(path string, logger *zap.Logger) (*Tracks, error) {
	t := &Tracks{
		path:   path,
		logger: logger,
		data: trackData{
			Version:   trackDataVersion,
			Playlists: make(map[string]map[string]core.TrackRecord),
		},
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracks) load() error {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.logger.Info("No track store found, starting empty", zap.String("path", t.path))
			return nil
		}
		return fmt.Errorf("reading track store: %w", err)
	}

	if err := json.Unmarshal(raw, &t.data); err != nil {
		return fmt.Errorf("parsing track store %s: %w", t.path, err)
	}
	if t.data.Playlists == nil {
		t.data.Playlists = make(map[string]map[string]core.TrackRecord)
	}

	tracks, sent := t.countLocked()
	t.logger.Info("Loaded track store",
		zap.String("path", t.path),
		zap.Int("tracks", tracks),
		zap.Int("sent", sent))
	return nil
}

// saveLocked persists the current state. Callers hold the write lock.
func (t *Tracks) saveLocked() error {
	t.data.Version = trackDataVersion
	t.data.UpdatedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding track store: %w", err)
	}
	return writeAtomic(t.path, raw, 0o600)
}

func (t *Tracks) Known(playlistID, trackID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.data.Playlists[playlistID][trackID]
	return ok
}

func (t *Tracks) IsSent(playlistID, trackID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.data.Playlists[playlistID][trackID]
	return ok && rec.Sent
}

func (t *Tracks) Record(playlistID string, track core.Track) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.data.Playlists[playlistID] == nil {
		t.data.Playlists[playlistID] = make(map[string]core.TrackRecord)
	}
	// records are append-only; an existing record is never overwritten
	if _, ok := t.data.Playlists[playlistID][track.ID]; ok {
		return nil
	}

	t.data.Playlists[playlistID][track.ID] = core.TrackRecord{Track: track}
	return t.saveLocked()
}

func (t *Tracks) MarkSent(playlistID, trackID string, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.data.Playlists[playlistID][trackID]
	if !ok {
		return fmt.Errorf("track %s not recorded for playlist %s", trackID, playlistID)
	}
	if rec.Sent {
		return nil
	}

	rec.Sent = true
	rec.SentAt = at
	t.data.Playlists[playlistID][trackID] = rec
	return t.saveLocked()
}

// SentIDs returns playlistID:trackID keys for every sent record, used to
// warm the sent-set accelerator at startup.
func (t *Tracks) SentIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ids []string
	for playlistID, records := range t.data.Playlists {
		for trackID, rec := range records {
			if rec.Sent {
				ids = append(ids, playlistID+":"+trackID)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func (t *Tracks) Stats() (tracks, sent int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.countLocked()
}

func (t *Tracks) countLocked() (tracks, sent int) {
	for _, records := range t.data.Playlists {
		tracks += len(records)
		for _, rec := range records {
			if rec.Sent {
				sent++
			}
		}
	}
	return tracks, sent
}

func (t *Tracks) RemovePlaylist(playlistID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.data.Playlists[playlistID]; !ok {
		return nil
	}
	delete(t.data.Playlists, playlistID)
	return t.saveLocked()
}
