package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/chants",
			expected: filepath.Join(home, "chants"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/cache/chants",
			expected: "/var/cache/chants",
		},
		{
			name:     "relative path unchanged",
			input:    "catalog.toml",
			expected: "catalog.toml",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFiles(t *testing.T) {
	path := writeConfig(t, `
catalog = "/srv/chants/catalog.toml"

[cache]
dir = "/tmp/chants-cache"
max_size_mb = 200
prefetch = 0

[playback]
poll_interval_ms = 250
notify = false

[quality]
param = "bitrate"
low = "64"
high = "320"

[log]
level = "DEBUG"
`)

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}

	if cfg.Catalog != "/srv/chants/catalog.toml" {
		t.Errorf("Catalog = %q", cfg.Catalog)
	}
	cache := cfg.GetCacheConfig()
	if cache.Dir != "/tmp/chants-cache" || cache.MaxSizeMB != 200 {
		t.Errorf("cache = %+v, want dir and size from file", cache)
	}
	if cache.PrefetchCount() != 0 {
		t.Errorf("PrefetchCount() = %d, want 0 (explicitly disabled)", cache.PrefetchCount())
	}
	if cache.DownloadTimeout != 10 {
		t.Errorf("DownloadTimeout = %d, want default 10", cache.DownloadTimeout)
	}
	pb := cfg.GetPlaybackConfig()
	if pb.PollIntervalMS != 250 || pb.StallSamples != 6 {
		t.Errorf("playback = %+v", pb)
	}
	if pb.NotifyEnabled() {
		t.Error("NotifyEnabled() = true, want false")
	}
	if !cfg.HasQualityConfig() {
		t.Error("HasQualityConfig() = false")
	}
	if q := cfg.GetQualityConfig(); q.Low != "64" || q.High != "320" || q.ProbeInterval != 60 {
		t.Errorf("quality = %+v", q)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want lowercased", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFiles_LastWins(t *testing.T) {
	first := writeConfig(t, "[cache]\nmax_size_mb = 100\ndownload_timeout = 30\n")
	second := writeConfig(t, "[cache]\nmax_size_mb = 800\n")

	cfg, err := LoadFiles(first, second, filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	if cfg.Cache.MaxSizeMB != 800 {
		t.Errorf("MaxSizeMB = %d, want 800", cfg.Cache.MaxSizeMB)
	}
	if cfg.Cache.DownloadTimeout != 30 {
		t.Errorf("DownloadTimeout = %d, want 30 (kept from first file)", cfg.Cache.DownloadTimeout)
	}
}

func TestLoadFiles_Malformed(t *testing.T) {
	path := writeConfig(t, "[cache\nmax_size_mb = ")
	if _, err := LoadFiles(path); err == nil {
		t.Error("LoadFiles should fail on malformed TOML")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	cache := cfg.GetCacheConfig()
	if cache.MaxSizeMB != 500 {
		t.Errorf("MaxSizeMB = %d, want 500", cache.MaxSizeMB)
	}
	if cache.DownloadTimeoutDuration().Seconds() != 10 {
		t.Errorf("DownloadTimeoutDuration() = %v, want 10s", cache.DownloadTimeoutDuration())
	}
	if cache.PrefetchCount() != 2 {
		t.Errorf("PrefetchCount() = %d, want 2", cache.PrefetchCount())
	}
	if cache.DownloadsPerSecond != 2 {
		t.Errorf("DownloadsPerSecond = %v, want 2", cache.DownloadsPerSecond)
	}
	if filepath.Base(cache.Dir) != "audio_cache" {
		t.Errorf("Dir = %q, want .../audio_cache", cache.Dir)
	}

	pb := cfg.GetPlaybackConfig()
	if pb.PollIntervalMS != 500 || pb.StallThresholdMS != 250 || pb.StallSamples != 6 || pb.EndThresholdMS != 500 {
		t.Errorf("playback defaults = %+v", pb)
	}
	if !pb.NotifyEnabled() {
		t.Error("NotifyEnabled() = false, want true by default")
	}

	if cfg.HasQualityConfig() {
		t.Error("HasQualityConfig() = true for empty config")
	}

	log := cfg.GetLogConfig()
	if log.Level != "info" || filepath.Base(log.File) != "chants.log" {
		t.Errorf("log defaults = %+v", log)
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"negative size", Config{Cache: CacheConfig{MaxSizeMB: -5}}, true},
		{"negative prefetch", Config{Cache: CacheConfig{Prefetch: &negative}}, true},
		{"negative poll", Config{Playback: PlaybackConfig{PollIntervalMS: -1}}, true},
		{"negative probe", Config{Quality: QualityConfig{ProbeInterval: -60}}, true},
		{"unknown level", Config{Log: LogConfig{Level: "verbose"}}, true},
		{"known level", Config{Log: LogConfig{Level: "warn"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want it to wrap ErrInvalid", err)
			}
		})
	}
}
