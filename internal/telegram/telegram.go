// Package telegram delivers audio files to channels and handles the admin
// command surface using the go-telegram/bot library.
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"tunedrop/internal/core"
	"tunedrop/internal/flood"
	"tunedrop/internal/i18n"
	"tunedrop/pkg/text"
)

const (
	// maxUploadSize is the Bot API limit for file uploads
	maxUploadSize = 50 * 1024 * 1024
)

// Config holds Telegram-specific configuration
type Config struct {
	BotToken            string
	AdminIDs            []int64
	Language            string
	FloodLimitPerMinute int
}

// Bot implements core.AudioSender and core.Notifier, and serves the admin
// commands.
type Bot struct {
	config    *Config
	logger    *zap.Logger
	bot       *bot.Bot
	localizer *i18n.Localizer
	floodgate *flood.Floodgate
	parser    *text.Parser
	deps      *Deps
}

func New(config *Config, deps *Deps, logger *zap.Logger) *Bot {
	language := config.Language
	if language == "" {
		language = i18n.DefaultLanguage
	}

	limit := config.FloodLimitPerMinute
	if limit <= 0 {
		limit = core.DefaultFloodLimitPerMinute
	}

	return &Bot{
		config:    config,
		logger:    logger,
		localizer: i18n.NewLocalizer(language),
		floodgate: flood.New(limit),
		parser:    text.NewParser(),
		deps:      deps,
	}
}

// Start creates the underlying bot, registers the command handlers and
// verifies the token. It does not begin long polling; see Run.
func (t *Bot) Start(ctx context.Context) error {
	opts := []bot.Option{
		bot.WithDefaultHandler(t.handleDefault),
	}

	b, err := bot.New(t.config.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	t.bot = b

	t.registerCommands()

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify bot token: %w", err)
	}

	t.logger.Info("Telegram bot started",
		zap.String("username", me.Username),
		zap.Int("admins", len(t.config.AdminIDs)))
	return nil
}

// Run begins long polling for updates and blocks until ctx ends.
func (t *Bot) Run(ctx context.Context) error {
	t.bot.Start(ctx)
	return nil
}

func (t *Bot) Stop() {
	t.floodgate.Stop()
}

func (t *Bot) handleDefault(_ context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	t.logger.Debug("Ignoring non-command message",
		zap.Int64("chatID", update.Message.Chat.ID))
}

// SendAudio uploads the file to the destination channel. Errors come back
// classified so the delivery engine can pick the right retry behavior.
func (t *Bot) SendAudio(ctx context.Context, channelID string, audio core.Audio) error {
	info, err := os.Stat(audio.Path)
	if err != nil {
		return fmt.Errorf("stat audio file: %w", err)
	}
	if info.Size() > maxUploadSize {
		return core.NewDeliveryError(core.FailurePermanentTooLarge,
			fmt.Errorf("file %s is %d bytes, over the %d byte upload limit", audio.Path, info.Size(), maxUploadSize))
	}

	f, err := os.Open(audio.Path)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	params := &bot.SendAudioParams{
		ChatID: parseChatID(channelID),
		Audio: &models.InputFileUpload{
			Filename: filepath.Base(audio.Path),
			Data:     f,
		},
		Caption:   audio.Caption,
		ParseMode: models.ParseModeHTML,
		Title:     audio.Title,
		Performer: audio.Performer,
	}

	if _, err := t.bot.SendAudio(ctx, params); err != nil {
		return wrapSendError(err)
	}
	return nil
}

// NotifyAdmins sends a direct message to every configured admin. A failure
// for one admin does not stop delivery to the rest.
func (t *Bot) NotifyAdmins(ctx context.Context, text string) error {
	if len(t.config.AdminIDs) == 0 {
		return fmt.Errorf("no admin IDs configured")
	}

	var delivered int
	for _, adminID := range t.config.AdminIDs {
		if err := t.sendText(ctx, adminID, text); err != nil {
			t.logger.Warn("Failed to notify admin",
				zap.Int64("adminID", adminID),
				zap.Error(err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("notification reached none of %d admins", len(t.config.AdminIDs))
	}
	return nil
}

func (t *Bot) sendText(ctx context.Context, chatID int64, text string) error {
	disabled := true
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disabled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (t *Bot) isAdmin(userID int64) bool {
	for _, id := range t.config.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parseChatID keeps "@channelname" destinations as strings and converts
// numeric ids so the Bot API receives them as integers.
func parseChatID(channelID string) any {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return id
	}
	return channelID
}
