package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/blocktest/bridge"
	"github.com/vk/blocktest/internal/cli"
	"github.com/vk/blocktest/internal/ctxlog"
	"github.com/vk/blocktest/internal/logging"
	"github.com/vk/blocktest/internal/manifest"
)

// loadManifest is replaced in tests.
var loadManifest = manifest.Load

// main is the entrypoint for the blocktest manifest tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the manifests named by args and lists the tests they declare.
func run(outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if _, err := os.Stat(cfg.ManifestPath); err != nil {
		return fmt.Errorf("cannot read manifest path: %w", err)
	}

	// The loader panics on broken invariants; report those like any load error.
	var m *manifest.Manifest
	if sigErr := bridge.Run(func() { m, err = loadManifest(ctx, cfg.ManifestPath) }); sigErr != nil {
		return fmt.Errorf("manifest loading panicked | %w", sigErr)
	}
	if err != nil {
		return err
	}
	logger.Info("Manifests loaded.", "files", len(m.Files), "suites", len(m.Suites()))

	return cli.PrintManifest(outW, m)
}
