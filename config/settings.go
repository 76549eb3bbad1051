package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Settings is the full persisted configuration of the portal.
type Settings struct {
	Server  ServerSettings  `yaml:"server" json:"server"`
	Catalog CatalogSettings `yaml:"catalog" json:"catalog"`
	Player  PlayerSettings  `yaml:"player" json:"player"`
	Storage StorageSettings `yaml:"storage" json:"storage"`
	Log     LogSettings     `yaml:"log" json:"log"`
}

// ServerSettings controls the HTTP listener and visitor sessions.
type ServerSettings struct {
	Addr       string        `yaml:"addr" json:"addr"`
	SessionTTL time.Duration `yaml:"sessionTTL" json:"sessionTTL"`
	// AllowedOrigins is passed to the CORS middleware. Empty allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty"`
}

// CatalogSettings configures the movie catalog provider.
type CatalogSettings struct {
	BaseURL      string        `yaml:"baseURL" json:"baseURL"`
	APIKey       string        `yaml:"apiKey" json:"apiKey"`
	ImageBaseURL string        `yaml:"imageBaseURL" json:"imageBaseURL"`
	Language     string        `yaml:"language" json:"language"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	// ProxyImages rewrites poster and backdrop URLs to the local /img proxy.
	ProxyImages bool `yaml:"proxyImages" json:"proxyImages"`
}

// PlayerSettings configures the embedded movie player and the sports stream.
type PlayerSettings struct {
	Host           string `yaml:"host" json:"host"`
	Color          string `yaml:"color" json:"color"`
	SportStreamURL string `yaml:"sportStreamURL" json:"sportStreamURL"`
	DefaultQuality string `yaml:"defaultQuality" json:"defaultQuality"`
}

// StorageDriver selects the persisted key-value backend.
type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageFile   StorageDriver = "file"
)

// StorageSettings configures where watchlists and playback progress live.
type StorageSettings struct {
	Driver StorageDriver `yaml:"driver" json:"driver"`
	Path   string        `yaml:"path" json:"path"`
}

// LogSettings configures the application logger and its rotating file sink.
type LogSettings struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	AccessFile string `yaml:"accessFile" json:"accessFile"`
	MaxSizeMB  int    `yaml:"maxSizeMB" json:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays" json:"maxAgeDays"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:       ":8080",
			SessionTTL: 24 * time.Hour,
		},
		Catalog: CatalogSettings{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "en-US",
			Timeout:      10 * time.Second,
		},
		Player: PlayerSettings{
			Host:           "www.vidking.net",
			Color:          "9146ff",
			SportStreamURL: "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4",
			DefaultQuality: "1080p",
		},
		Storage: StorageSettings{
			Driver: StorageSQLite,
			Path:   "data/streamhub.db",
		},
		Log: LogSettings{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// withDefaults fills zero-valued fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()

	if s.Server.Addr == "" {
		s.Server.Addr = def.Server.Addr
	}
	if s.Server.SessionTTL <= 0 {
		s.Server.SessionTTL = def.Server.SessionTTL
	}
	if s.Catalog.BaseURL == "" {
		s.Catalog.BaseURL = def.Catalog.BaseURL
	}
	s.Catalog.BaseURL = strings.TrimRight(s.Catalog.BaseURL, "/")
	if s.Catalog.ImageBaseURL == "" {
		s.Catalog.ImageBaseURL = def.Catalog.ImageBaseURL
	}
	s.Catalog.ImageBaseURL = strings.TrimRight(s.Catalog.ImageBaseURL, "/")
	if s.Catalog.Language == "" {
		s.Catalog.Language = def.Catalog.Language
	}
	if s.Catalog.Timeout <= 0 {
		s.Catalog.Timeout = def.Catalog.Timeout
	}
	if s.Player.Host == "" {
		s.Player.Host = def.Player.Host
	}
	if s.Player.Color == "" {
		s.Player.Color = def.Player.Color
	}
	s.Player.Color = strings.TrimPrefix(s.Player.Color, "#")
	if s.Player.SportStreamURL == "" {
		s.Player.SportStreamURL = def.Player.SportStreamURL
	}
	if s.Player.DefaultQuality == "" {
		s.Player.DefaultQuality = def.Player.DefaultQuality
	}
	if s.Storage.Driver == "" {
		s.Storage.Driver = def.Storage.Driver
	}
	if s.Storage.Path == "" {
		s.Storage.Path = def.Storage.Path
	}
	if s.Log.Level == "" {
		s.Log.Level = def.Log.Level
	}
	if s.Log.MaxSizeMB <= 0 {
		s.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if s.Log.MaxBackups <= 0 {
		s.Log.MaxBackups = def.Log.MaxBackups
	}
	if s.Log.MaxAgeDays <= 0 {
		s.Log.MaxAgeDays = def.Log.MaxAgeDays
	}
	return s
}

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Validate reports the first setting that cannot be used.
func (s Settings) Validate() error {
	switch s.Storage.Driver {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("storage.driver: unsupported driver %q", s.Storage.Driver)
	}
	if !hexColor.MatchString(s.Player.Color) {
		return fmt.Errorf("player.color: %q is not a 6-digit hex colour", s.Player.Color)
	}
	if !strings.HasPrefix(s.Catalog.BaseURL, "http://") && !strings.HasPrefix(s.Catalog.BaseURL, "https://") {
		return fmt.Errorf("catalog.baseURL: %q is not an http(s) URL", s.Catalog.BaseURL)
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unsupported level %q", s.Log.Level)
	}
	return nil
}
