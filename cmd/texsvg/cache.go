package main

import (
	"fmt"
	"os"

	"github.com/Kush-Singh-26/texsvg/builder/cache"
	"github.com/Kush-Singh-26/texsvg/builder/config"
)

// handleCacheCommand processes cache-related subcommands
func handleCacheCommand(args []string) error {
	if len(args) < 1 {
		printCacheUsage()
		return fmt.Errorf("missing cache subcommand")
	}

	cfg, err := config.Load(args[1:])
	if err != nil {
		return err
	}
	if cfg.CacheDir == "" {
		return fmt.Errorf("artifact cache is disabled (cacheDir is empty)")
	}

	switch args[0] {
	case "stats":
		return cacheStats(cfg)
	case "gc":
		return cacheGC(cfg)
	case "clear":
		return cacheClear(cfg)
	default:
		printCacheUsage()
		return fmt.Errorf("unknown cache subcommand: %s", args[0])
	}
}

func printCacheUsage() {
	fmt.Println("Usage: texsvg cache <subcommand>")
	fmt.Println("\nSubcommands:")
	fmt.Println("  stats          Show cache statistics")
	fmt.Println("  gc             Drop unreferenced blobs and dangling records")
	fmt.Println("  clear          Delete all cached SVGs")
}

func openCache(cfg *config.Config) (*cache.Manager, error) {
	if _, err := os.Stat(cfg.CacheDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("no cache at %s", cfg.CacheDir)
	}
	cm, err := cache.Open(cfg.CacheDir, cfg.Build.CacheDBTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cm, nil
}

func cacheStats(cfg *config.Config) error {
	cm, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cm.Close() }()

	stats, err := cm.Stats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📊 Cache Statistics")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Location:        %s\n", cfg.CacheDir)
	fmt.Printf("Schema Version:  %d\n", stats.SchemaVersion)
	fmt.Printf("SVG Artifacts:   %d\n", stats.Artifacts)
	fmt.Printf("Store Size:      %.2f MB\n", float64(stats.StoreBytes)/(1024*1024))
	fmt.Printf("Build Count:     %d\n", stats.BuildCount)
	return nil
}

func cacheGC(cfg *config.Config) error {
	cm, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cm.Close() }()

	fmt.Println("🗑️  Running garbage collection...")
	result, err := cm.Prune()
	if err != nil {
		return fmt.Errorf("GC failed: %w", err)
	}

	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Scanned:    %d blobs\n", result.ScannedBlobs)
	fmt.Printf("Live:       %d blobs\n", result.LiveBlobs)
	fmt.Printf("Deleted:    %d blobs, %d records\n", result.DeletedBlobs, result.DeletedRecords)
	fmt.Printf("Duration:   %v\n", result.Duration)
	fmt.Println("\n✅ GC complete")
	return nil
}

func cacheClear(cfg *config.Config) error {
	cm, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cm.Close() }()

	if err := cm.Clear(); err != nil {
		return err
	}
	fmt.Println("✅ Cache cleared")
	return nil
}
