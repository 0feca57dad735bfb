package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config struct for environment variables.
type Config struct {
	Aria2Path string `envconfig:"ARIA2_PATH" default:"aria2c"`

	ConfDir     string `envconfig:"CONF_DIR"`
	DownloadDir string `envconfig:"DOWNLOAD_DIR"`

	MaxDownloadRate      string `envconfig:"MAX_DOWNLOAD_RATE" default:"4M"`
	MaxUploadRate        string `envconfig:"MAX_UPLOAD_RATE" default:"200K"`
	MaxConnectionsPerSrv int    `envconfig:"MAX_CONNECTIONS_PER_SERVER" default:"4"`
	Split                int    `envconfig:"SPLIT" default:"8"`
	MinSplitSize         string `envconfig:"MIN_SPLIT_SIZE" default:"10M"`

	ListenPort int      `envconfig:"LISTEN_PORT" default:"6881"`
	EnableDHT  bool     `envconfig:"ENABLE_DHT" default:"true"`
	EnablePEX  bool     `envconfig:"ENABLE_PEX" default:"true"`
	Trackers   []string `envconfig:"TRACKERS" default:"udp://tracker.opentrackr.org:1337/announce,udp://open.stealth.si:80/announce,udp://tracker.torrent.eu.org:451/announce,udp://opentracker.i2p.rocks:6969/announce"`

	RetryCount     uint          `envconfig:"RETRY_COUNT" default:"3"`
	RetryDelayBase time.Duration `envconfig:"RETRY_DELAY_BASE" default:"5s"`
	RetryDelayMax  time.Duration `envconfig:"RETRY_DELAY_MAX" default:"2m"`

	LogLevel          string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFile           string `envconfig:"LOG_FILE"`
	DBPath            string `envconfig:"DB_PATH"`
	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL"`

	RPC struct {
		URL             string        `split_words:"true" default:"http://localhost:6800/jsonrpc"`
		Secret          string        `split_words:"true"`
		PollingInterval time.Duration `split_words:"true" default:"1s"`
	}
}

// LoadConfig reads environment variables and populates the Config struct.
// Home-relative defaults are resolved here so the rest of the code only
// ever sees absolute paths.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ariactl", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	if cfg.ConfDir == "" {
		cfg.ConfDir = filepath.Join(home, ".aria2")
	}

	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(home, "Downloads")
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.ConfDir, "history.db")
	}

	return &cfg, nil
}

// ConfFile returns the path of the generated aria2 configuration file.
func (c *Config) ConfFile() string {
	return filepath.Join(c.ConfDir, "aria2.conf")
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
