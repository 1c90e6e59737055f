package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/ooze/config"
	"github.com/pthm-cable/ooze/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file for saved populations (empty = use config)")
	resume := flag.Bool("resume", false, "Restore oozes from the latest save in -db")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until interrupted)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		DBPath:      *dbPath,
		Resume:      *resume,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"resume", *resume,
	)

	err = g.Run(ctx, int32(*maxTicks))
	g.Unload()
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}
