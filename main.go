package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "snapshots", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	if *headless {
		runHeadless(opts, *maxTicks)
	} else {
		runWindowed(opts, *maxTicks)
	}
}

// runHeadless drives the simulation without a window until the ship is
// lost or the tick limit is reached.
func runHeadless(opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)
	for {
		g.UpdateHeadless()
		if g.Over() {
			slog.Info("run over, ship destroyed", "tick", g.Tick())
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("run over, max ticks reached", "tick", g.Tick())
			return
		}
	}
}

func runWindowed(opts game.Options, maxTicks int) {
	cfg := config.Cfg()
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Starhelm")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			return
		}
	}
}
