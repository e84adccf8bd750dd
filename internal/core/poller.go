package core

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"tunedrop/internal/i18n"
)

// Poller runs the playlist check cycle: fetch tracks from the source, diff
// against the track store, fetch audio for unsent tracks and deliver them to
// the playlist's channel. Cycles run single-threaded; a manual trigger
// starts one outside the regular interval.
type Poller struct {
	config    *Config
	source    PlaylistSource
	fetcher   Fetcher
	sender    AudioSender
	notifier  Notifier
	tracks    TrackStore
	playlists PlaylistStore
	sent      SentSet
	engine    *DeliveryEngine
	metrics   Metrics
	localizer *i18n.Localizer
	logger    *zap.Logger

	trigger chan struct{}

	statsMutex sync.RWMutex
	lastCycle  time.Time
	cycleCount int

	// swapped out in tests
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

func NewPoller(
	config *Config,
	source PlaylistSource,
	fetcher Fetcher,
	sender AudioSender,
	notifier Notifier,
	tracks TrackStore,
	playlists PlaylistStore,
	sent SentSet,
	metrics Metrics,
	localizer *i18n.Localizer,
	logger *zap.Logger,
) *Poller {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Poller{
		config:    config,
		source:    source,
		fetcher:   fetcher,
		sender:    sender,
		notifier:  notifier,
		tracks:    tracks,
		playlists: playlists,
		sent:      sent,
		engine:    NewDeliveryEngine(config.App.Delivery, ClassifyError, metrics, logger.Named("delivery")),
		metrics:   metrics,
		localizer: localizer,
		logger:    logger,
		trigger:   make(chan struct{}, 1),
		wait:      waitFor,
		now:       time.Now,
	}
}

func (p *Poller) Start(ctx context.Context) error {
	p.sent.Load(p.tracks.SentIDs())

	tracks, sent := p.tracks.Stats()
	p.metrics.SetSentTracks(sent)
	p.metrics.SetPlaylists(len(p.playlists.List()))

	p.logger.Info("Starting playlist poller",
		zap.Duration("interval", p.config.App.CheckInterval),
		zap.Int("playlists", len(p.playlists.List())),
		zap.Int("knownTracks", tracks),
		zap.Int("sentTracks", sent))

	ticker := time.NewTicker(p.config.App.CheckInterval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Playlist poller stopped")
			return nil
		case <-p.trigger:
			p.runCycle(ctx)
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// TriggerCheck requests an immediate cycle. Non-blocking; a request while a
// trigger is already pending is dropped.
func (p *Poller) TriggerCheck() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

type PollerStats struct {
	Playlists   int
	KnownTracks int
	SentTracks  int
	LastCycle   time.Time
	CycleCount  int
}

func (p *Poller) Stats() PollerStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	tracks, sent := p.tracks.Stats()
	return PollerStats{
		Playlists:   len(p.playlists.List()),
		KnownTracks: tracks,
		SentTracks:  sent,
		LastCycle:   p.lastCycle,
		CycleCount:  p.cycleCount,
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	start := p.now()
	status := "ok"

	playlists := p.playlists.List()
	p.logger.Info("Starting check cycle", zap.Int("playlists", len(playlists)))

	for i, pl := range playlists {
		if ctx.Err() != nil {
			status = "canceled"
			break
		}

		if err := p.checkPlaylist(ctx, pl); err != nil {
			var de *DeliveryError
			if errors.As(err, &de) && de.Kind.IsFatal() {
				p.logger.Error("Check cycle aborted",
					zap.String("playlist", pl.ID),
					zap.String("kind", de.Kind.String()),
					zap.Error(err))
				p.notifyAdmins(ctx, p.localizer.T("notify.cycle_aborted", pl.Name, err))
				status = "aborted"
				break
			}
			if errors.Is(err, context.Canceled) {
				status = "canceled"
				break
			}

			p.logger.Error("Playlist check failed",
				zap.String("playlist", pl.ID),
				zap.Error(err))
			status = "error"
			continue
		}

		if i < len(playlists)-1 {
			if err := p.wait(ctx, p.config.App.PlaylistPause); err != nil {
				status = "canceled"
				break
			}
		}
	}

	elapsed := p.now().Sub(start)
	p.metrics.RecordCycle(status, elapsed)
	p.metrics.SetPlaylists(len(playlists))

	p.statsMutex.Lock()
	p.lastCycle = p.now()
	p.cycleCount++
	p.statsMutex.Unlock()

	p.logger.Info("Check cycle finished",
		zap.String("status", status),
		zap.Duration("elapsed", elapsed))
}

func (p *Poller) checkPlaylist(ctx context.Context, pl Playlist) error {
	tracks, err := p.source.PlaylistTracks(ctx, pl.ID)
	if err != nil {
		kind := ClassifyError(err)
		if kind.IsFatal() {
			return &DeliveryError{Kind: kind, Err: err}
		}
		return fmt.Errorf("fetching playlist %s: %w", pl.ID, err)
	}

	var newTracks int
	for _, t := range tracks {
		if p.tracks.Known(pl.ID, t.ID) {
			continue
		}
		if err := p.tracks.Record(pl.ID, t); err != nil {
			return fmt.Errorf("recording track %s: %w", t.ID, err)
		}
		newTracks++
	}
	if newTracks > 0 {
		p.logger.Info("New tracks found",
			zap.String("playlist", pl.ID),
			zap.Int("count", newTracks))
	}

	for _, t := range tracks {
		if p.isSent(pl.ID, t.ID) {
			continue
		}
		if err := p.deliverTrack(ctx, pl, t); err != nil {
			return err
		}
	}

	return p.playlists.Touch(pl.ID, p.now(), len(tracks))
}

// isSent consults the bloom/LRU accelerator first. A bloom miss is
// definitive. An exact entry is trusted, its keys come from the persisted
// store. A bloom positive without an exact entry is a false positive or a
// key evicted at capacity, so the store decides.
func (p *Poller) isSent(playlistID, trackID string) bool {
	key := sentKey(playlistID, trackID)
	if !p.sent.MayContain(key) {
		return false
	}
	if p.sent.Has(key) {
		return true
	}
	return p.tracks.IsSent(playlistID, trackID)
}

func sentKey(playlistID, trackID string) string {
	return playlistID + ":" + trackID
}

func (p *Poller) deliverTrack(ctx context.Context, pl Playlist, t Track) error {
	desc := fmt.Sprintf("%s - %s", t.Artist, t.Title)

	path, err := p.fetcher.Fetch(ctx, t)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.metrics.RecordDownload("error")
		p.logger.Warn("Audio fetch failed, skipping track",
			zap.String("track", desc),
			zap.Error(err))
		p.notifyAdmins(ctx, p.localizer.T("notify.fetch_failure", desc, err))
		return p.wait(ctx, p.config.App.Delivery.FailurePause)
	}
	p.metrics.RecordDownload("ok")
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			p.logger.Debug("Failed to remove downloaded file",
				zap.String("path", path),
				zap.Error(removeErr))
		}
	}()

	// re-checked after the download, sent ids are never resubmitted
	if p.isSent(pl.ID, t.ID) {
		return nil
	}

	audio := Audio{
		Path:      path,
		Title:     t.Title,
		Performer: t.Artist,
		Caption:   p.buildCaption(pl, t),
	}

	outcome, err := p.engine.Deliver(ctx, desc, func(ctx context.Context) error {
		return p.sender.SendAudio(ctx, pl.ChannelID, audio)
	})
	p.metrics.RecordDelivery(outcome.String())

	switch outcome {
	case OutcomeDelivered:
		if err := p.markSent(pl.ID, t.ID); err != nil {
			return err
		}
		p.logger.Info("Track delivered",
			zap.String("track", desc),
			zap.String("channel", pl.ChannelID))
		return p.wait(ctx, p.config.App.Delivery.SuccessPause)

	case OutcomePermanent:
		p.notifyAdmins(ctx, p.localizer.T("notify.permanent_failure", desc, pl.ChannelID, err))
		return p.wait(ctx, p.config.App.Delivery.FailurePause)

	case OutcomeExhausted:
		p.logger.Warn("Delivery retries exhausted",
			zap.String("track", desc),
			zap.Error(err))
		p.notifyAdmins(ctx, p.localizer.T("notify.retries_exhausted", desc, pl.ChannelID, err))
		return p.wait(ctx, p.config.App.Delivery.FailurePause)

	case OutcomeFatal:
		return err

	default: // OutcomeCanceled
		return err
	}
}

func (p *Poller) markSent(playlistID, trackID string) error {
	if err := p.tracks.MarkSent(playlistID, trackID, p.now()); err != nil {
		return fmt.Errorf("marking track %s sent: %w", trackID, err)
	}
	p.sent.Add(sentKey(playlistID, trackID))

	_, sent := p.tracks.Stats()
	p.metrics.SetSentTracks(sent)
	return nil
}

func (p *Poller) buildCaption(pl Playlist, t Track) string {
	caption := fmt.Sprintf("<b>%s</b>\n%s",
		html.EscapeString(t.Title),
		html.EscapeString(t.Artist))
	if t.URL != "" {
		caption += fmt.Sprintf("\n\n<a href=\"%s\">%s</a>", t.URL, html.EscapeString(pl.Name))
	} else if pl.Name != "" {
		caption += "\n\n" + html.EscapeString(pl.Name)
	}
	return caption
}

func (p *Poller) notifyAdmins(ctx context.Context, text string) {
	if p.notifier == nil {
		return
	}
	p.metrics.RecordNotification()
	if err := p.notifier.NotifyAdmins(ctx, text); err != nil {
		p.logger.Warn("Failed to notify admins", zap.Error(err))
	}
}
