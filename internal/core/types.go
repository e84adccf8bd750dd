package core

import (
	"context"
	"time"
)

type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	URL      string
	AddedAt  time.Time
}

// TrackRecord is the persisted state of a track observed in a playlist.
// Records are append-only, keyed by track ID within a playlist.
type TrackRecord struct {
	Track  Track     `json:"track"`
	Sent   bool      `json:"sent"`
	SentAt time.Time `json:"sent_at,omitzero"`
}

type Playlist struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	ChannelID   string    `json:"channel_id"`
	AddedBy     string    `json:"added_by"`
	AddedAt     time.Time `json:"added_at"`
	LastChecked time.Time `json:"last_checked,omitzero"`
	TrackCount  int       `json:"track_count"`
}

// Audio describes a downloaded file ready for delivery.
type Audio struct {
	Path      string
	Title     string
	Performer string
	Caption   string
}

type PlaylistSource interface {
	PlaylistName(ctx context.Context, playlistID string) (string, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)
	ExtractPlaylistID(url string) (string, error)
}

// Fetcher obtains a local audio file for a track. The caller owns the
// returned path and removes it after delivery.
type Fetcher interface {
	Fetch(ctx context.Context, track Track) (string, error)
}

type AudioSender interface {
	SendAudio(ctx context.Context, channelID string, audio Audio) error
}

type Notifier interface {
	NotifyAdmins(ctx context.Context, text string) error
}

type TrackStore interface {
	Known(playlistID, trackID string) bool
	IsSent(playlistID, trackID string) bool
	Record(playlistID string, track Track) error
	MarkSent(playlistID, trackID string, at time.Time) error
	SentIDs() []string
	Stats() (tracks, sent int)
	RemovePlaylist(playlistID string) error
}

type PlaylistStore interface {
	List() []Playlist
	Get(playlistID string) (Playlist, bool)
	Add(p Playlist) error
	Remove(playlistID string) error
	Touch(playlistID string, checkedAt time.Time, trackCount int) error
}

// SentSet is the in-memory accelerator over the persisted sent ids.
// Has reports definite membership in the bounded exact set; MayContain
// probes the bloom filter, whose negatives are definitive but whose
// positives include evicted keys and false positives.
type SentSet interface {
	Has(trackID string) bool
	MayContain(trackID string) bool
	Add(trackID string)
	Remove(trackID string)
	Load(trackIDs []string)
	Size() int
	Clear()
}

type Metrics interface {
	RecordCycle(status string, duration time.Duration)
	RecordDelivery(status string)
	RecordRetry(kind string)
	RecordDownload(status string)
	RecordNotification()
	SetSentTracks(count int)
	SetPlaylists(count int)
}

// NopMetrics is used where no metrics sink is wired.
type NopMetrics struct{}

func (NopMetrics) RecordCycle(string, time.Duration) {}
func (NopMetrics) RecordDelivery(string)             {}
func (NopMetrics) RecordRetry(string)                {}
func (NopMetrics) RecordDownload(string)             {}
func (NopMetrics) RecordNotification()               {}
func (NopMetrics) SetSentTracks(int)                 {}
func (NopMetrics) SetPlaylists(int)                  {}
