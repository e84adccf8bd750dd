package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"tunedrop/internal/core"
)

const playlistNameTimeout = 15 * time.Second

// ARLManager manages the downloader credential.
type ARLManager interface {
	SaveARL(arl string) error
	HasARL() bool
}

// PollerControl is the slice of the poller the command surface needs.
type PollerControl interface {
	TriggerCheck()
	Stats() core.PollerStats
}

// Deps are the collaborators behind the admin commands.
type Deps struct {
	Source    core.PlaylistSource
	Playlists core.PlaylistStore
	Tracks    core.TrackStore
	Sent      core.SentSet
	Downloads ARLManager
	Poller    PollerControl
}

func (t *Bot) registerCommands() {
	commands := map[string]func(ctx context.Context, msg *models.Message, args []string){
		"/start":  t.handleStart,
		"/help":   t.handleStart,
		"/add":    t.handleAdd,
		"/remove": t.handleRemove,
		"/list":   t.handleList,
		"/check":  t.handleCheck,
		"/stats":  t.handleStats,
		"/setarl": t.handleSetARL,
	}

	for pattern, handler := range commands {
		t.bot.RegisterHandler(bot.HandlerTypeMessageText, pattern, bot.MatchTypePrefix, t.adminCommand(handler))
	}
}

// adminCommand guards a handler: admins only, flood-gated, args split off
// the command word.
func (t *Bot) adminCommand(handler func(ctx context.Context, msg *models.Message, args []string)) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil {
			return
		}

		if !t.isAdmin(msg.From.ID) {
			t.logger.Debug("Ignoring command from non-admin",
				zap.Int64("userID", msg.From.ID))
			return
		}

		if !t.floodgate.Allow(msg.From.ID) {
			t.reply(ctx, msg, t.localizer.T("cmd.flood"))
			return
		}

		fields := strings.Fields(msg.Text)
		if len(fields) == 0 {
			return
		}
		handler(ctx, msg, fields[1:])
	}
}

func (t *Bot) reply(ctx context.Context, msg *models.Message, text string) {
	if err := t.sendText(ctx, msg.Chat.ID, text); err != nil {
		t.logger.Warn("Failed to send command reply", zap.Error(err))
	}
}

func (t *Bot) handleStart(ctx context.Context, msg *models.Message, _ []string) {
	t.reply(ctx, msg, t.localizer.T("cmd.help"))
}

func (t *Bot) handleAdd(ctx context.Context, msg *models.Message, args []string) {
	if len(args) < 2 {
		t.reply(ctx, msg, t.localizer.T("cmd.add_usage"))
		return
	}

	urls := t.parser.ExtractURLs(msg.Text)
	if len(urls) == 0 {
		t.reply(ctx, msg, t.localizer.T("cmd.add_invalid_url"))
		return
	}
	playlistURL := urls[0]

	playlistID, err := t.deps.Source.ExtractPlaylistID(playlistURL)
	if err != nil {
		t.reply(ctx, msg, t.localizer.T("cmd.add_invalid_url"))
		return
	}

	channelID := args[1]
	if !validChannelID(channelID) {
		t.reply(ctx, msg, t.localizer.T("cmd.add_invalid_channel", channelID))
		return
	}

	name := strings.Join(args[2:], " ")
	if name == "" {
		name = t.lookupPlaylistName(ctx, playlistID)
	}

	playlist := core.Playlist{
		ID:        playlistID,
		URL:       playlistURL,
		Name:      name,
		ChannelID: channelID,
		AddedBy:   senderName(msg),
		AddedAt:   time.Now().UTC(),
	}

	if err := t.deps.Playlists.Add(playlist); err != nil {
		t.reply(ctx, msg, t.localizer.T("cmd.add_failed", err))
		return
	}

	t.logger.Info("Playlist added",
		zap.String("playlist", playlistID),
		zap.String("channel", channelID),
		zap.String("by", playlist.AddedBy))
	t.reply(ctx, msg, t.localizer.T("cmd.add_ok", name, channelID))
}

func (t *Bot) lookupPlaylistName(ctx context.Context, playlistID string) string {
	nameCtx, cancel := context.WithTimeout(ctx, playlistNameTimeout)
	defer cancel()

	name, err := t.deps.Source.PlaylistName(nameCtx, playlistID)
	if err != nil {
		t.logger.Warn("Failed to look up playlist name, using ID",
			zap.String("playlist", playlistID),
			zap.Error(err))
		return playlistID
	}
	return name
}

func (t *Bot) handleRemove(ctx context.Context, msg *models.Message, args []string) {
	if len(args) < 1 {
		t.reply(ctx, msg, t.localizer.T("cmd.remove_usage"))
		return
	}

	playlistID := args[0]
	if extracted, err := t.deps.Source.ExtractPlaylistID(playlistID); err == nil {
		playlistID = extracted
	}

	playlist, ok := t.deps.Playlists.Get(playlistID)
	if !ok {
		t.reply(ctx, msg, t.localizer.T("cmd.remove_missing", playlistID))
		return
	}

	if err := t.deps.Playlists.Remove(playlistID); err != nil {
		t.reply(ctx, msg, t.localizer.T("cmd.remove_failed", err))
		return
	}
	// purge before the records go, SentIDs is derived from them
	if t.deps.Sent != nil {
		purgeSentKeys(t.deps.Sent, t.deps.Tracks.SentIDs(), playlistID)
	}
	if err := t.deps.Tracks.RemovePlaylist(playlistID); err != nil {
		t.logger.Warn("Failed to drop track records for removed playlist",
			zap.String("playlist", playlistID),
			zap.Error(err))
	}

	t.logger.Info("Playlist removed", zap.String("playlist", playlistID))
	t.reply(ctx, msg, t.localizer.T("cmd.remove_ok", playlist.Name))
}

// purgeSentKeys drops a removed playlist's keys from the sent-set
// accelerator so they do not linger until the next restart.
func purgeSentKeys(sent core.SentSet, sentIDs []string, playlistID string) {
	prefix := playlistID + ":"
	for _, key := range sentIDs {
		if strings.HasPrefix(key, prefix) {
			sent.Remove(key)
		}
	}
}

func (t *Bot) handleList(ctx context.Context, msg *models.Message, _ []string) {
	playlists := t.deps.Playlists.List()
	if len(playlists) == 0 {
		t.reply(ctx, msg, t.localizer.T("cmd.list_empty"))
		return
	}

	var sb strings.Builder
	sb.WriteString(t.localizer.T("cmd.list_header"))
	for i, pl := range playlists {
		lastChecked := t.localizer.T("cmd.list_never_checked")
		if !pl.LastChecked.IsZero() {
			lastChecked = pl.LastChecked.UTC().Format("2006-01-02 15:04")
		}
		sb.WriteString(t.localizer.T("cmd.list_entry",
			i+1, pl.Name, pl.ID, pl.ChannelID, pl.TrackCount, lastChecked))
	}

	t.reply(ctx, msg, sb.String())
}

func (t *Bot) handleCheck(ctx context.Context, msg *models.Message, _ []string) {
	if !t.deps.Downloads.HasARL() {
		t.reply(ctx, msg, t.localizer.T("cmd.arl_missing"))
		return
	}

	t.deps.Poller.TriggerCheck()
	t.reply(ctx, msg, t.localizer.T("cmd.check_started"))
}

func (t *Bot) handleStats(ctx context.Context, msg *models.Message, _ []string) {
	stats := t.deps.Poller.Stats()

	lastCycle := t.localizer.T("cmd.list_never_checked")
	if !stats.LastCycle.IsZero() {
		lastCycle = stats.LastCycle.UTC().Format("2006-01-02 15:04")
	}

	t.reply(ctx, msg, t.localizer.T("cmd.stats",
		stats.Playlists, stats.KnownTracks, stats.SentTracks, stats.CycleCount, lastCycle))
}

func (t *Bot) handleSetARL(ctx context.Context, msg *models.Message, args []string) {
	if len(args) < 1 {
		t.reply(ctx, msg, t.localizer.T("cmd.setarl_usage"))
		return
	}

	if err := t.deps.Downloads.SaveARL(args[0]); err != nil {
		t.reply(ctx, msg, t.localizer.T("cmd.setarl_failed", err))
		return
	}

	// best effort, the message holds a credential
	if _, err := t.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}); err != nil {
		t.logger.Debug("Could not delete message containing ARL", zap.Error(err))
	}

	t.reply(ctx, msg, t.localizer.T("cmd.setarl_ok"))
}

func validChannelID(channelID string) bool {
	if strings.HasPrefix(channelID, "@") {
		return len(channelID) > 1
	}
	_, err := strconv.ParseInt(channelID, 10, 64)
	return err == nil
}

func senderName(msg *models.Message) string {
	if msg.From == nil {
		return ""
	}
	if msg.From.Username != "" {
		return msg.From.Username
	}
	return fmt.Sprintf("%d", msg.From.ID)
}
