package config

import (
	"log/slog"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Aria2Path != "aria2c" {
		t.Errorf("Aria2Path = %q, want %q", cfg.Aria2Path, "aria2c")
	}

	if cfg.RetryCount != 3 {
		t.Errorf("RetryCount = %d, want 3", cfg.RetryCount)
	}

	if cfg.MaxDownloadRate != "4M" {
		t.Errorf("MaxDownloadRate = %q, want %q", cfg.MaxDownloadRate, "4M")
	}

	if len(cfg.Trackers) != 4 {
		t.Errorf("len(Trackers) = %d, want 4", len(cfg.Trackers))
	}

	if cfg.RPC.URL != "http://localhost:6800/jsonrpc" {
		t.Errorf("RPC.URL = %q, want aria2 default", cfg.RPC.URL)
	}

	if cfg.ConfDir == "" || cfg.DownloadDir == "" || cfg.DBPath == "" {
		t.Errorf("home-relative defaults not resolved: %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ARIACTL_DOWNLOAD_DIR", "/data/downloads")
	t.Setenv("ARIACTL_RETRY_COUNT", "5")
	t.Setenv("ARIACTL_TRACKERS", "udp://a:1/announce,udp://b:2/announce")
	t.Setenv("ARIACTL_RPC_SECRET", "s3cret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DownloadDir != "/data/downloads" {
		t.Errorf("DownloadDir = %q, want override", cfg.DownloadDir)
	}

	if cfg.RetryCount != 5 {
		t.Errorf("RetryCount = %d, want 5", cfg.RetryCount)
	}

	if len(cfg.Trackers) != 2 {
		t.Errorf("len(Trackers) = %d, want 2", len(cfg.Trackers))
	}

	if cfg.RPC.Secret != "s3cret" {
		t.Errorf("RPC.Secret = %q, want override", cfg.RPC.Secret)
	}
}

func TestConfFile(t *testing.T) {
	cfg := &Config{ConfDir: "/home/user/.aria2"}

	if got := cfg.ConfFile(); got != "/home/user/.aria2/aria2.conf" {
		t.Errorf("ConfFile() = %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
