package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/texsvg/builder/config"
)

// Run loads configuration from args and performs a single build.
func Run(ctx context.Context, args []string, logger *slog.Logger) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	b, err := NewBuilder(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			fmt.Printf("⚠️  Failed to close artifact cache: %v\n", err)
		}
	}()

	fmt.Printf("🔨 Building %s... (output: %s)\n", cfg.Title, cfg.Output)
	m, err := b.Build(ctx)
	if m != nil {
		m.Print()
	}
	if err != nil {
		return err
	}
	fmt.Printf("✅ Done. Output written to %s\n", cfg.OutputDir)
	return nil
}
