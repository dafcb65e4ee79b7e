// Package clean removes build output and the artifact cache.
package clean

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kush-Singh-26/texsvg/builder/cache"
	"github.com/Kush-Singh-26/texsvg/builder/config"
)

// Options selects what Run removes besides the output directory.
type Options struct {
	// Cache deletes the artifact cache directory.
	Cache bool
	// Prune drops unreferenced blobs and dangling records but keeps live
	// artifacts. Ignored when Cache is set.
	Prune bool
}

// Run cleans the output directory of cfg and, depending on opts, the cache.
func Run(cfg *config.Config, opts Options) error {
	start := time.Now()

	if err := cleanDirAsync(cfg.OutputDir); err != nil {
		return err
	}

	switch {
	case opts.Cache && cfg.CacheDir != "":
		if err := cleanDirAsync(cfg.CacheDir); err != nil {
			return err
		}
	case opts.Prune && cfg.CacheDir != "":
		if err := pruneCache(cfg); err != nil {
			return err
		}
	}

	fmt.Printf("🧹 Clean initiated in %v (backgrounding deletion).\n", time.Since(start))
	return nil
}

// cleanDirAsync moves absPath aside and deletes it in the background, so the
// path is free for the next build immediately.
func cleanDirAsync(absPath string) error {
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	}

	dir := filepath.Dir(absPath)
	base := filepath.Base(absPath)
	tempName := fmt.Sprintf("%s_deleting_%d", base, time.Now().UnixNano())
	tempPath := filepath.Join(dir, tempName)

	fmt.Printf("🧹 Moving '%s' to trash...\n", absPath)
	if err := os.Rename(absPath, tempPath); err != nil {
		fmt.Printf("⚠️ Rename failed (%v), deleting synchronously...\n", err)
		if err := os.RemoveAll(absPath); err != nil {
			return fmt.Errorf("failed to remove '%s': %w", absPath, err)
		}
		return nil
	}

	go func() {
		_ = os.RemoveAll(tempPath)
	}()
	return nil
}

func pruneCache(cfg *config.Config) error {
	if _, err := os.Stat(cfg.CacheDir); os.IsNotExist(err) {
		return nil
	}

	var timeout time.Duration
	if cfg.Build != nil {
		timeout = cfg.Build.CacheDBTimeout
	}
	m, err := cache.Open(cfg.CacheDir, timeout)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	res, err := m.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	fmt.Printf("🗑️  Pruned %d blobs and %d records (%d live) in %v\n",
		res.DeletedBlobs, res.DeletedRecords, res.LiveBlobs, res.Duration.Round(time.Millisecond))
	return nil
}
