package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chants/internal/app"
	"github.com/llehouerou/chants/internal/audiocache"
	"github.com/llehouerou/chants/internal/config"
	"github.com/llehouerou/chants/internal/keymap"
	"github.com/llehouerou/chants/internal/logging"
	"github.com/llehouerou/chants/internal/metrics"
	"github.com/llehouerou/chants/internal/mpris"
	"github.com/llehouerou/chants/internal/notify"
	"github.com/llehouerou/chants/internal/playback"
	"github.com/llehouerou/chants/internal/player"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
	"github.com/llehouerou/chants/internal/state"
	"github.com/llehouerou/chants/internal/stderr"
	"github.com/llehouerou/chants/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(cfg.GetLogConfig())
	if err != nil {
		fmt.Printf("Warning: logging disabled: %v\n", err)
		logger, logCloser = logging.Discard(), io.NopCloser(nil)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	// Audio backends write to stderr, which would corrupt the UI.
	if err := stderr.Start(logger); err != nil {
		logger.Warn("capture stderr", "err", err)
	}
	defer stderr.Stop()

	stateMgr, err := state.Open("", logger)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer stateMgr.Close()

	cacheCfg := cfg.GetCacheConfig()
	cache := audiocache.New(
		storage.NewLocal(cacheCfg.DownloadTimeoutDuration()),
		audiocache.NewIndex(stateMgr.DB()),
		audiocache.Options{
			Dir:                cacheCfg.Dir,
			MaxSizeMB:          cacheCfg.MaxSizeMB,
			DownloadTimeout:    cacheCfg.DownloadTimeoutDuration(),
			DownloadsPerSecond: cacheCfg.DownloadsPerSecond,
			Logger:             logger,
		},
	)
	defer cache.Close()
	cache.Reconcile()
	if mb, err := stateMgr.GetCacheLimit(); err != nil {
		logger.Warn("read saved cache limit", "err", err)
	} else if mb > 0 {
		cache.SetMaxSizeMB(mb)
	}

	stats := metrics.NewStats()
	pbCfg := cfg.GetPlaybackConfig()
	service := playback.New(playback.Deps{
		Player:  player.New(nil),
		Queue:   playlist.NewQueue(),
		Cache:   cache,
		Quality: quality.FromConfig(cfg, logger),
		Metrics: metrics.Multi{metrics.NewLogSink(logger), stats},
		Toaster: newToaster(pbCfg, logger),
		Logger:  logger,
	}, playback.Options{
		PollInterval:   time.Duration(pbCfg.PollIntervalMS) * time.Millisecond,
		StallThreshold: time.Duration(pbCfg.StallThresholdMS) * time.Millisecond,
		StallSamples:   pbCfg.StallSamples,
		EndThreshold:   time.Duration(pbCfg.EndThresholdMS) * time.Millisecond,
		Prefetch:       cacheCfg.PrefetchCount(),
	})
	defer service.Close()

	if err := loadQueue(service, stateMgr, cfg.Catalog, args, logger); err != nil {
		return err
	}

	if adapter, err := mpris.New(service, logger); err != nil {
		logger.Warn("mpris unavailable", "err", err)
	} else {
		defer adapter.Close()
	}

	m := app.New(app.Deps{
		Playback:  service,
		State:     stateMgr,
		Cache:     cache,
		Downloads: cache.Coordinator(),
		Stats:     stats,
		Keys:      keymap.Default(),
		Logger:    logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	stateMgr.SaveQueue(service.QueueSnapshot())
	return nil
}

// loadQueue fills the queue: URLs given on the command line win, then the
// saved queue, then the configured catalog.
func loadQueue(service playback.Service, stateMgr *state.Manager, catalog string, args []string, logger *slog.Logger) error {
	if len(args) > 0 {
		tracks := make([]playlist.Track, 0, len(args))
		for _, a := range args {
			if u := quality.SanitizeURL(a); u != "" {
				tracks = append(tracks, playlist.FromURL(u))
			}
		}
		service.SetQueue(tracks)
		return nil
	}

	snap, err := stateMgr.GetQueue()
	if err != nil {
		logger.Warn("read saved queue", "err", err)
	}
	if snap != nil && len(snap.Tracks) > 0 {
		service.RestoreQueue(*snap)
		return nil
	}

	if catalog == "" {
		return nil
	}
	tracks, err := playlist.LoadCatalog(catalog)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("catalog not found", "path", catalog)
			return nil
		}
		return err
	}
	service.SetQueue(tracks)
	return nil
}

func newToaster(cfg config.PlaybackConfig, logger *slog.Logger) playback.Toaster {
	if !cfg.NotifyEnabled() {
		return nil
	}
	n, err := notify.New()
	if err != nil {
		logger.Warn("desktop notifications unavailable", "err", err)
		return nil
	}
	return notify.NewToaster(n, logger)
}
