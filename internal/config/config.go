package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "chants"

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Catalog string `koanf:"catalog"` // path to a TOML track catalog

	Cache    CacheConfig    `koanf:"cache"`
	Playback PlaybackConfig `koanf:"playback"`
	Quality  QualityConfig  `koanf:"quality"`
	Log      LogConfig      `koanf:"log"`
}

// CacheConfig holds the local audio cache settings.
type CacheConfig struct {
	Dir                string  `koanf:"dir"`                  // default: $XDG_CACHE_HOME/chants/audio_cache
	MaxSizeMB          int     `koanf:"max_size_mb"`          // eviction ceiling (default: 500)
	DownloadTimeout    int     `koanf:"download_timeout"`     // seconds per download (default: 10)
	Prefetch           *int    `koanf:"prefetch"`             // upcoming tracks to download (default: 2, 0 disables)
	DownloadsPerSecond float64 `koanf:"downloads_per_second"` // download start rate (default: 2)
}

// PlaybackConfig tunes position polling and stall detection.
type PlaybackConfig struct {
	PollIntervalMS   int   `koanf:"poll_interval_ms"`   // default: 500
	StallThresholdMS int   `koanf:"stall_threshold_ms"` // default: 250
	StallSamples     int   `koanf:"stall_samples"`      // default: 6
	EndThresholdMS   int   `koanf:"end_threshold_ms"`   // default: 500
	Notify           *bool `koanf:"notify"`             // desktop toasts on failures (default: true)
}

// QualityConfig selects stream variants by network quality. An empty Param
// disables it.
type QualityConfig struct {
	Param         string `koanf:"param"` // query parameter name, e.g. "bitrate"
	Low           string `koanf:"low"`
	Medium        string `koanf:"medium"`
	High          string `koanf:"high"`
	ProbeURL      string `koanf:"probe_url"`
	ProbeInterval int    `koanf:"probe_interval"` // seconds (default: 60)
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/chants/chants.log
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
}

func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given files in order, later files overriding earlier
// ones. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Catalog = expandPath(cfg.Catalog)
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/chants/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Validate rejects negative sizes and intervals.
func (c *Config) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative (got %v)", ErrInvalid, name, v))
		}
	}
	check("cache.max_size_mb", float64(c.Cache.MaxSizeMB))
	check("cache.download_timeout", float64(c.Cache.DownloadTimeout))
	check("cache.downloads_per_second", c.Cache.DownloadsPerSecond)
	if c.Cache.Prefetch != nil {
		check("cache.prefetch", float64(*c.Cache.Prefetch))
	}
	check("playback.poll_interval_ms", float64(c.Playback.PollIntervalMS))
	check("playback.stall_threshold_ms", float64(c.Playback.StallThresholdMS))
	check("playback.stall_samples", float64(c.Playback.StallSamples))
	check("playback.end_threshold_ms", float64(c.Playback.EndThresholdMS))
	check("quality.probe_interval", float64(c.Quality.ProbeInterval))

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level))
	}
	return errors.Join(errs...)
}

// GetCacheConfig returns the cache configuration with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(xdg.CacheHome, appName, "audio_cache")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 500
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 10
	}
	if cfg.Prefetch == nil || *cfg.Prefetch < 0 {
		n := 2
		cfg.Prefetch = &n
	}
	if cfg.DownloadsPerSecond <= 0 {
		cfg.DownloadsPerSecond = 2
	}

	return cfg
}

// DownloadTimeoutDuration returns the per-download deadline.
func (c CacheConfig) DownloadTimeoutDuration() time.Duration {
	return time.Duration(c.DownloadTimeout) * time.Second
}

// PrefetchCount returns the number of upcoming tracks to prefetch.
func (c CacheConfig) PrefetchCount() int {
	if c.Prefetch == nil {
		return 0
	}
	return *c.Prefetch
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = 500
	}
	if cfg.StallThresholdMS <= 0 {
		cfg.StallThresholdMS = 250
	}
	if cfg.StallSamples <= 0 {
		cfg.StallSamples = 6
	}
	if cfg.EndThresholdMS <= 0 {
		cfg.EndThresholdMS = 500
	}
	if cfg.Notify == nil {
		enabled := true
		cfg.Notify = &enabled
	}

	return cfg
}

// NotifyEnabled reports whether failure toasts are shown.
func (c PlaybackConfig) NotifyEnabled() bool {
	return c.Notify == nil || *c.Notify
}

// GetQualityConfig returns the quality configuration with defaults applied.
func (c *Config) GetQualityConfig() QualityConfig {
	cfg := c.Quality
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 60
	}
	return cfg
}

// HasQualityConfig returns true if stream variant selection is configured.
func (c *Config) HasQualityConfig() bool {
	return c.Quality.Param != ""
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}
