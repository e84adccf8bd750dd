// Package main provides the tunedrop CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tunedrop/internal/core"
	"tunedrop/internal/deezer"
	httpserver "tunedrop/internal/http"
	"tunedrop/internal/i18n"
	"tunedrop/internal/spotify"
	"tunedrop/internal/store"
	"tunedrop/internal/telegram"
)

const (
	defaultServerHost = "0.0.0.0"

	sentSetCapacity          = 100000
	sentSetFalsePositiveRate = 0.001
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tunedrop",
	Short: "tunedrop - Spotify playlist → Telegram channel delivery bot",
	Long: `tunedrop watches Spotify playlists, downloads newly added tracks and
delivers the audio to per-playlist Telegram channels. Admins manage the
watched playlists through bot commands.`,
	RunE: runTunedrop,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("telegram-bot-token", "", "Telegram bot token")
	rootCmd.PersistentFlags().String("telegram-admin-ids", "", "Comma-separated Telegram admin user IDs")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("deezer-arl", "", "Deezer ARL cookie for downloads")
	rootCmd.PersistentFlags().String("deemix-path", "deemix", "Path to the deemix binary")
	rootCmd.PersistentFlags().String("deemix-config-dir", "", "deemix config directory (default ~/.config/deemix)")
	rootCmd.PersistentFlags().String("download-dir", "./downloads", "Directory for downloaded audio files")
	rootCmd.PersistentFlags().String("bitrate", "128", "Download bitrate (128, 320, flac)")
	rootCmd.PersistentFlags().Int("fetch-timeout-secs", 300, "Download timeout per track in seconds")
	rootCmd.PersistentFlags().String("playlists-path", "./playlists.json", "Playlist store file path")
	rootCmd.PersistentFlags().String("tracks-path", "./tracks.json", "Track store file path")
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().Int("check-interval-mins", 360, "Minutes between playlist check cycles")
	rootCmd.PersistentFlags().Int("playlist-pause-secs", 5, "Pause between playlists within a cycle in seconds")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Bot language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Int("flood-limit-per-minute", 6, "Maximum commands per admin per minute")
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Load .env file explicitly using gotenv
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		// Don't exit if .env file doesn't exist, just warn
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("TUNEDROP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureTelegram(cfg)
	configureSpotify(cfg)
	configureDeezer(cfg)
	configureStore(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureTelegram(cfg *core.Config) {
	cfg.Telegram.BotToken = viper.GetString("telegram-bot-token")
	cfg.Telegram.AdminIDs = parseAdminIDs(viper.GetString("telegram-admin-ids"))
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Ignoring invalid admin ID %q\n", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureDeezer(cfg *core.Config) {
	cfg.Deezer.ARL = viper.GetString("deezer-arl")
	cfg.Deezer.DeemixPath = viper.GetString("deemix-path")
	cfg.Deezer.ConfigDir = viper.GetString("deemix-config-dir")
	cfg.Deezer.DownloadDir = viper.GetString("download-dir")
	cfg.Deezer.Bitrate = viper.GetString("bitrate")

	if secs := viper.GetInt("fetch-timeout-secs"); secs > 0 {
		cfg.Deezer.FetchTimeout = time.Duration(secs) * time.Second
	}
}

func configureStore(cfg *core.Config) {
	cfg.Store.PlaylistsPath = viper.GetString("playlists-path")
	cfg.Store.TracksPath = viper.GetString("tracks-path")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configureApp(cfg *core.Config) {
	if mins := viper.GetInt("check-interval-mins"); mins > 0 {
		cfg.App.CheckInterval = time.Duration(mins) * time.Minute
	}
	if secs := viper.GetInt("playlist-pause-secs"); secs >= 0 {
		cfg.App.PlaylistPause = time.Duration(secs) * time.Second
	}

	// Language configuration with validation
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
	if cfg.App.FloodLimitPerMinute <= 0 {
		cfg.App.FloodLimitPerMinute = core.DefaultFloodLimitPerMinute
	}
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if strings.ToLower(format) == "text" {
		cfg.Encoding = "console"
	}

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTunedrop(cmd *cobra.Command, _ []string) error {
	// Handle generate-env-example flag
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting tunedrop",
		zap.String("version", "1.0.0"),
		zap.Int("admins", len(config.Telegram.AdminIDs)),
		zap.Duration("check_interval", config.App.CheckInterval))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}

	return runServices(ctx, services)
}

type services struct {
	spotify    *spotify.Client
	downloader *deezer.Downloader
	telegram   *telegram.Bot
	poller     *core.Poller
	httpServer *httpserver.Server
	locks      []*store.FileLock
}

func initializeServices(ctx context.Context) (*services, error) {
	tracksLock, err := store.AcquireFileLock(config.Store.TracksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to lock track store: %w", err)
	}
	playlistsLock, err := store.AcquireFileLock(config.Store.PlaylistsPath)
	if err != nil {
		tracksLock.Release()
		return nil, fmt.Errorf("failed to lock playlist store: %w", err)
	}
	locks := []*store.FileLock{tracksLock, playlistsLock}

	tracksStore, err := store.NewTracks(config.Store.TracksPath, logger.Named("store"))
	if err != nil {
		releaseLocks(locks)
		return nil, fmt.Errorf("failed to open track store: %w", err)
	}
	playlistsStore, err := store.NewPlaylists(config.Store.PlaylistsPath, logger.Named("store"))
	if err != nil {
		releaseLocks(locks)
		return nil, fmt.Errorf("failed to open playlist store: %w", err)
	}
	sent := store.NewSentSet(sentSetCapacity, sentSetFalsePositiveRate)

	spotifyClient := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	if authErr := spotifyClient.Authenticate(ctx); authErr != nil {
		releaseLocks(locks)
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", authErr)
	}

	deezerClient := deezer.NewClient(logger.Named("deezer"))
	downloader := deezer.NewDownloader(&config.Deezer, deezerClient, logger.Named("deemix"))
	if config.Deezer.ARL != "" {
		if arlErr := downloader.SaveARL(config.Deezer.ARL); arlErr != nil {
			releaseLocks(locks)
			return nil, fmt.Errorf("failed to persist Deezer ARL: %w", arlErr)
		}
	}
	if !downloader.HasARL() {
		logger.Warn("No Deezer ARL configured, downloads will fail until /setarl is used")
	}

	httpServer := httpserver.NewServer(&config.Server, logger.Named("http"))

	deps := &telegram.Deps{
		Source:    spotifyClient,
		Playlists: playlistsStore,
		Tracks:    tracksStore,
		Sent:      sent,
		Downloads: downloader,
	}
	telegramBot := telegram.New(&telegram.Config{
		BotToken:            config.Telegram.BotToken,
		AdminIDs:            config.Telegram.AdminIDs,
		Language:            config.App.Language,
		FloodLimitPerMinute: config.App.FloodLimitPerMinute,
	}, deps, logger.Named("telegram"))

	poller := core.NewPoller(config, spotifyClient, downloader, telegramBot, telegramBot,
		tracksStore, playlistsStore, sent, httpServer,
		i18n.NewLocalizer(config.App.Language), logger.Named("poller"))
	deps.Poller = poller

	return &services{
		spotify:    spotifyClient,
		downloader: downloader,
		telegram:   telegramBot,
		poller:     poller,
		httpServer: httpServer,
		locks:      locks,
	}, nil
}

func releaseLocks(locks []*store.FileLock) {
	for _, lock := range locks {
		lock.Release()
	}
}

func runServices(ctx context.Context, svcs *services) error {
	defer releaseLocks(svcs.locks)
	defer svcs.telegram.Stop()

	if err := svcs.telegram.Start(ctx); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return svcs.telegram.Run(gCtx)
	})

	g.Go(func() error {
		return svcs.poller.Start(gCtx)
	})

	logger.Info("tunedrop started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("tunedrop stopped with error", zap.Error(err))
		return err
	}

	logger.Info("tunedrop stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if len(config.Telegram.AdminIDs) == 0 {
		return fmt.Errorf("at least one telegram admin ID is required")
	}

	if config.Spotify.ClientID == "" {
		return fmt.Errorf("spotify client ID is required")
	}
	if config.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client secret is required")
	}

	if config.Deezer.DeemixPath == "" {
		return fmt.Errorf("deemix path is required")
	}

	return nil
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	// Header
	content.WriteString("# =============================================================================\n")
	content.WriteString("# tunedrop Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: TUNEDROP_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n")

	generateTelegramSection(&content)
	generateSpotifySection(&content)
	generateDeezerSection(&content, cmd)
	generateStoreSection(&content, cmd)
	generateAppSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateLoggingSection(&content, cmd)
	generateQuickSetupGuide(&content)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return "TUNEDROP_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateTelegramSection(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# TELEGRAM CONFIGURATION - Required\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# CLI: --telegram-bot-token, --telegram-admin-ids\n")
	content.WriteString("\n")

	fmt.Fprintf(content, "%s=123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11  # Bot token from @BotFather\n",
		flagToEnvVar("telegram-bot-token"))
	fmt.Fprintf(content, "%s=123456789,987654321          # Comma-separated admin user IDs (get from @userinfobot)\n",
		flagToEnvVar("telegram-admin-ids"))
	content.WriteString("\n")
}

func generateSpotifySection(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# SPOTIFY CONFIGURATION - Required\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Get these from https://developer.spotify.com/dashboard\n")
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret\n")
	content.WriteString("\n")

	fmt.Fprintf(content, "%s=your_spotify_client_id_here          # Spotify app client ID\n",
		flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "%s=your_spotify_client_secret_here  # Spotify app client secret\n",
		flagToEnvVar("spotify-client-secret"))
	content.WriteString("\n")
}

func generateDeezerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# DEEZER / DEEMIX CONFIGURATION\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# CLI: --deezer-arl, --deemix-path, --download-dir, --bitrate\n")

	deemixDefault := getDefaultValueString(cmd, "deemix-path")
	downloadDefault := getDefaultValueString(cmd, "download-dir")
	bitrateDefault := getDefaultValueString(cmd, "bitrate")
	fetchTimeoutDefault := getDefaultValueString(cmd, "fetch-timeout-secs")

	fmt.Fprintf(content, "%s=your_arl_cookie_here                 # Deezer ARL cookie (or use /setarl later)\n",
		flagToEnvVar("deezer-arl"))
	fmt.Fprintf(content, "%s=%s                             # Path to deemix binary (default: %s)\n",
		flagToEnvVar("deemix-path"), deemixDefault, deemixDefault)
	fmt.Fprintf(content, "%s=                         # deemix config dir (default: ~/.config/deemix)\n",
		flagToEnvVar("deemix-config-dir"))
	fmt.Fprintf(content, "%s=%s                # Download directory (default: %s)\n",
		flagToEnvVar("download-dir"), downloadDefault, downloadDefault)
	fmt.Fprintf(content, "%s=%s                                # Bitrate: 128, 320, flac (default: %s)\n",
		flagToEnvVar("bitrate"), bitrateDefault, bitrateDefault)
	fmt.Fprintf(content, "%s=%s                     # Download timeout per track in seconds (default: %s)\n",
		flagToEnvVar("fetch-timeout-secs"), fetchTimeoutDefault, fetchTimeoutDefault)
	content.WriteString("\n")
}

func generateStoreSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Persistence\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --playlists-path, --tracks-path\n")

	playlistsDefault := getDefaultValueString(cmd, "playlists-path")
	tracksDefault := getDefaultValueString(cmd, "tracks-path")

	fmt.Fprintf(content, "%s=%s          # Playlist store (default: %s)\n",
		flagToEnvVar("playlists-path"), playlistsDefault, playlistsDefault)
	fmt.Fprintf(content, "%s=%s                # Track store (default: %s)\n",
		flagToEnvVar("tracks-path"), tracksDefault, tracksDefault)
	content.WriteString("\n")
}

func generateAppSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Application Settings\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --check-interval-mins, --playlist-pause-secs, --language, --flood-limit-per-minute\n")

	intervalDefault := getDefaultValueString(cmd, "check-interval-mins")
	pauseDefault := getDefaultValueString(cmd, "playlist-pause-secs")
	langDefault := getDefaultValueString(cmd, "language")
	floodDefault := getDefaultValueString(cmd, "flood-limit-per-minute")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")

	fmt.Fprintf(content, "%s=%s                  # Minutes between check cycles (default: %s)\n",
		flagToEnvVar("check-interval-mins"), intervalDefault, intervalDefault)
	fmt.Fprintf(content, "%s=%s                    # Pause between playlists in seconds (default: %s)\n",
		flagToEnvVar("playlist-pause-secs"), pauseDefault, pauseDefault)
	fmt.Fprintf(content, "%s=%s                                    # Bot language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, supportedLangs, langDefault)
	fmt.Fprintf(content, "%s=%s                      # Max commands per admin per minute (default: %s)\n",
		flagToEnvVar("flood-limit-per-minute"), floodDefault, floodDefault)
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), hostDefault, hostDefault)
	fmt.Fprintf(content, "%s=%s                              # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Logging Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --log-level, --log-format\n")

	logDefault := getDefaultValueString(cmd, "log-level")
	formatDefault := getDefaultValueString(cmd, "log-format")

	fmt.Fprintf(content, "%s=%s                                # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	fmt.Fprintf(content, "%s=%s                               # Log format: json, text (default: %s)\n",
		flagToEnvVar("log-format"), formatDefault, formatDefault)
	content.WriteString("\n")
}

func generateQuickSetupGuide(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# QUICK SETUP GUIDE\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("\n")
	content.WriteString("# 1. TELEGRAM SETUP:\n")
	content.WriteString("#    - Message @BotFather on Telegram\n")
	content.WriteString("#    - Create bot with /newbot command\n")
	content.WriteString("#    - Copy bot token to TUNEDROP_TELEGRAM_BOT_TOKEN above\n")
	content.WriteString("#    - Add the bot as admin to every target channel\n")
	content.WriteString("#    - Get your user ID with @userinfobot and set TUNEDROP_TELEGRAM_ADMIN_IDS above\n")
	content.WriteString("\n")
	content.WriteString("# 2. SPOTIFY SETUP:\n")
	content.WriteString("#    - Go to https://developer.spotify.com/dashboard\n")
	content.WriteString("#    - Create new app with name \"tunedrop\"\n")
	content.WriteString("#    - Copy Client ID and Secret to config above\n")
	content.WriteString("#    - Only the client-credentials flow is used, no redirect URI needed\n")
	content.WriteString("\n")
	content.WriteString("# 3. DEEMIX SETUP:\n")
	content.WriteString("#    - Install deemix: pip install deemix\n")
	content.WriteString("#    - Get your Deezer ARL cookie from a logged-in browser session\n")
	content.WriteString("#    - Set TUNEDROP_DEEZER_ARL above, or send /setarl to the bot later\n")
	content.WriteString("\n")
	content.WriteString("# 4. TEST CONFIGURATION:\n")
	content.WriteString("#    go run ./cmd/tunedrop --help                        # See all CLI options\n")
	content.WriteString("#    go run ./cmd/tunedrop --log-level=debug            # Run with debug logging\n")
	content.WriteString("#    make build && ./bin/tunedrop                       # Build and run\n")
	content.WriteString("\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# TROUBLESHOOTING\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"Bot doesn't answer commands\"\n")
	content.WriteString("# - Commands only work for the user IDs in TUNEDROP_TELEGRAM_ADMIN_IDS\n")
	content.WriteString("# - Check bot token is valid with curl: curl https://api.telegram.org/bot<TOKEN>/getMe\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"Tracks are found but never delivered\"\n")
	content.WriteString("# - Ensure the bot is an admin of the target channel with post rights\n")
	content.WriteString("# - Check the ARL is set: send /check and watch for the warning reply\n")
	content.WriteString("# - Files over 50 MB cannot be uploaded through the Bot API, lower the bitrate\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"deemix fails\"\n")
	content.WriteString("# - The ARL cookie expires every few months, refresh it with /setarl\n")
	content.WriteString("# - Run with TUNEDROP_LOG_LEVEL=debug to see the deemix output\n")
}
