package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kush-Singh-26/texsvg/builder/config"
	"github.com/Kush-Singh-26/texsvg/builder/run"
	"github.com/Kush-Singh-26/texsvg/internal/clean"
	"github.com/Kush-Singh-26/texsvg/internal/version"
	"github.com/Kush-Singh-26/texsvg/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case "build":
		err = run.Run(ctx, args, logger)
	case "watch":
		err = watchCmd(ctx, args, logger)
	case "clean":
		err = cleanCmd(args)
	case "cache":
		err = handleCacheCommand(args)
	case "version":
		version.Run()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if os.Getenv("TEXSVG_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func watchCmd(ctx context.Context, args []string, logger *slog.Logger) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	b, err := run.NewBuilder(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	rebuild := func() {
		m, err := b.Build(ctx)
		if m != nil {
			m.Print()
		}
		if err != nil {
			fmt.Printf("❌ Build failed: %v\n", err)
		}
	}

	fmt.Printf("🔨 Building %s... (output: %s)\n", cfg.Title, cfg.Output)
	rebuild()

	w, err := watch.New([]string{cfg.ContentDir}, cfg.Build.DebounceDuration, logger, func(ev watch.Event) {
		fmt.Printf("⚡ Change detected in %s, rebuilding...\n", ev.Name)
		rebuild()
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("👀 Watching %s for changes. Press Ctrl+C to stop.\n", cfg.ContentDir)
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\n👋 Stopped watching.")
	return nil
}

func cleanCmd(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	withCache := fs.Bool("cache", false, "Also delete the artifact cache")
	prune := fs.Bool("prune", false, "Prune unreferenced cache blobs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs.Args())
	if err != nil {
		return err
	}
	return clean.Run(cfg, clean.Options{Cache: *withCache, Prune: *prune})
}

func printUsage() {
	fmt.Println("Usage: texsvg <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  build          Render math and build the output")
	fmt.Println("  watch          Build, then rebuild whenever content changes")
	fmt.Println("  clean          Remove the output directory")
	fmt.Println("  cache          Inspect or maintain the artifact cache")
	fmt.Println("  version        Print version information")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for build and watch:")
	fmt.Println("  -output <t>    Output target: website, json, ebook, pdf, epub, mobi")
	fmt.Println("  -force-svg     Render SVG images even for website output")
	fmt.Println("  -content <dir> Content directory (default: content)")
	fmt.Println("  -out <dir>     Output directory (default: public)")
	fmt.Println("  -engine <file> TeX engine script (default: mathjax-engine.js)")
	fmt.Println("  -baseurl <url> Base URL for root-relative links")
	fmt.Println("  -force         Ignore the artifact cache")
	fmt.Println("  -minify        Minify rendered SVGs")
	fmt.Println("\nFlags for clean:")
	fmt.Println("  -cache         Also delete the artifact cache")
	fmt.Println("  -prune         Prune unreferenced cache blobs")
	fmt.Println("\nSet TEXSVG_DEBUG=1 for verbose logs.")
}
