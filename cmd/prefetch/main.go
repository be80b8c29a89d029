// Prefetch downloads every track of a catalog into the audio cache, so it
// can be played offline.
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/chants/internal/audiocache"
	"github.com/llehouerou/chants/internal/config"
	"github.com/llehouerou/chants/internal/logging"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
	"github.com/llehouerou/chants/internal/state"
	"github.com/llehouerou/chants/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalog := cfg.Catalog
	if len(os.Args) > 1 {
		catalog = os.Args[1]
	}
	if catalog == "" {
		log.Fatalf("Usage: %s <catalog.toml>", os.Args[0])
	}

	tracks, err := playlist.LoadCatalog(catalog)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Found %d tracks in %s", len(tracks), catalog)

	stateMgr, err := state.Open("", logging.Discard())
	if err != nil {
		log.Fatalf("Failed to open state: %v", err)
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
			Logger:             logging.Discard(),
		},
	)
	defer cache.Close()
	cache.Reconcile()

	var (
		mu     sync.Mutex
		failed []audiocache.Result
		done   int
	)
	cache.Coordinator().OnComplete(func(r audiocache.Result) {
		mu.Lock()
		defer mu.Unlock()
		if !r.OK() {
			failed = append(failed, r)
			log.Printf("  failed %s: %v", r.URL, r.Err)
			return
		}
		done++
		log.Printf("  cached %s (%s)", r.URL, r.Elapsed.Round(time.Millisecond))
	})

	start := time.Now()
	urls, skipped := targets(context.Background(), tracks, quality.FromConfig(cfg, logging.Discard()), cache.IsCached)
	for _, u := range urls {
		cache.Coordinator().DownloadInBackground(u)
	}
	cache.Coordinator().Wait()

	log.Printf("Done in %s: %d downloaded, %d skipped (no url, duplicate or cached), %d failed",
		time.Since(start).Round(time.Millisecond), done, skipped, len(failed))
	log.Printf("Cache size: %s / %s",
		humanize.IBytes(uint64(cache.SizeBytes())), humanize.IBytes(uint64(cache.MaxSizeMB())<<20))

	if len(failed) > 0 {
		cache.Close()
		stateMgr.Close()
		os.Exit(1)
	}
}

// targets returns the URLs to download, keyed exactly as the player looks
// them up, and how many tracks were skipped for having no URL, repeating an
// earlier one or being cached already.
func targets(ctx context.Context, tracks []playlist.Track, r quality.Resolver, cached func(string) bool) ([]string, int) {
	var urls []string
	skipped := 0
	seen := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		u := quality.SourceURL(ctx, r, t.URL)
		if u == "" || cached(u) || seen[u] {
			skipped++
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, skipped
}
