package core

import (
	"time"
)

type Config struct {
	Telegram TelegramConfig
	Spotify  SpotifyConfig
	Deezer   DeezerConfig
	Store    StoreConfig
	Server   ServerConfig
	Log      LogConfig
	App      AppConfig
}

type TelegramConfig struct {
	BotToken string
	AdminIDs []int64
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type DeezerConfig struct {
	ARL          string
	DeemixPath   string
	ConfigDir    string
	DownloadDir  string
	Bitrate      string
	FetchTimeout time.Duration
}

type StoreConfig struct {
	PlaylistsPath string
	TracksPath    string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	CheckInterval       time.Duration
	PlaylistPause       time.Duration
	Delivery            DeliveryConfig
	Language            string
	FloodLimitPerMinute int
}

const DefaultFloodLimitPerMinute = 6

func DefaultConfig() *Config {
	return &Config{
		Deezer: DeezerConfig{
			DeemixPath:   "deemix",
			DownloadDir:  "./downloads",
			Bitrate:      "128",
			FetchTimeout: 300 * time.Second,
		},
		Store: StoreConfig{
			PlaylistsPath: "./playlists.json",
			TracksPath:    "./tracks.json",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			CheckInterval:       6 * time.Hour,
			PlaylistPause:       5 * time.Second,
			Delivery:            DefaultDeliveryConfig(),
			Language:            "en",
			FloodLimitPerMinute: DefaultFloodLimitPerMinute,
		},
	}
}
