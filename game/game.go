// Package game wires the simulation together. One Game owns the ship
// state, the sector, the presentation layer, and the telemetry
// pipeline, and advances them in fixed-dt ticks.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/camera"
	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/flight"
	"github.com/lcrow/starhelm/renderer"
	"github.com/lcrow/starhelm/scanner"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/telemetry"
	"github.com/lcrow/starhelm/ui"
	"github.com/lcrow/starhelm/universe"
	"github.com/lcrow/starhelm/warp"
	"github.com/lcrow/starhelm/weapons"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game is the live simulation and everything attached to it.
type Game struct {
	rng     *rand.Rand
	rngSeed int64

	pose     spatial.Pose
	intent   flight.Intent
	drive    *warp.Drive
	systems  *ship.Systems
	battery  *weapons.Battery
	sensors  *scanner.Array
	sector   *universe.Universe
	director *camera.Director

	synth     *audio.Synth
	scene     *renderer.SceneRenderer
	hud       *ui.HUD
	panel     *ui.CommandPanel
	perfPanel *ui.PerfPanel

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	snapshotDir   string

	tick      int32
	paused    bool
	speed     int
	headless  bool
	destroyed bool
	showPerf  bool
	showHelp  bool

	pendingLevel     int
	beam             *renderer.BeamShot
	pilot            *autopilot
	nextFlightSample float64
}

// NewGame builds an interactive game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: time.Now().UnixNano()})
}

// NewGameWithOptions builds a game. Every subsystem shares the one rng
// and the one notifier so runs with the same seed and inputs replay
// identically.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.StepsPerUpdate <= 0 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		rng:           rand.New(rand.NewSource(seed)),
		rngSeed:       seed,
		pose:          spatial.NewPose(rl.Vector3{}),
		speed:         opts.StepsPerUpdate,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
		pendingLevel:  1,
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Screen.TargetFPS)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output directory", "dir", opts.OutputDir, "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	notifier := audio.Func(g.onCue)
	g.drive = warp.NewDrive(notifier)
	g.systems = ship.NewSystems(g.rng, notifier)
	g.battery = weapons.NewBattery(notifier)
	g.sensors = scanner.NewArray(notifier)
	g.sector = universe.NewUniverse(g.rng)
	g.director = camera.NewDirector()

	if opts.Headless {
		g.pilot = newAutopilot()
	} else {
		g.synth = audio.NewSynth()
		if err := g.synth.Initialize(); err != nil {
			slog.Error("audio device unavailable, running silent", "error", err)
			g.synth = nil
		}
		g.scene = renderer.NewSceneRenderer(seed)
		g.hud = ui.NewHUD()
		g.panel = ui.NewCommandPanel()
		g.perfPanel = ui.NewPerfPanel(320, 10)
	}

	slog.Info("game initialized",
		"seed", seed,
		"headless", opts.Headless,
		"bodies", len(g.sector.Bodies()),
		"hostiles", g.sector.HostileCount(),
	)
	return g
}

// onCue fans one notification out to the speaker, the event log, and
// the stats counters that track cue-shaped outcomes.
func (g *Game) onCue(cue string) {
	if g.synth != nil {
		g.synth.Notify(cue)
	}
	if g.outputManager != nil {
		row := telemetry.EventRow{SimTimeSec: g.simTime(), Event: cue}
		if err := g.outputManager.WriteEvent(row); err != nil {
			slog.Error("failed to write event", "error", err)
		}
	}
	switch cue {
	case audio.CueWarpCharging:
		g.collector.RecordWarpEngaged()
	case audio.CueWarpComplete:
		g.collector.RecordWarpCompleted()
	case audio.CueScanComplete:
		g.collector.RecordScanCompleted()
	case audio.CueScanFailed:
		g.collector.RecordScanFailed()
	case audio.CueTorpedoAway:
		g.collector.RecordTorpedoFired()
	}
}

// Update advances one interactive frame: input first, then as many
// simulation steps as the speed setting asks for.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless advances the simulation without input or rendering.
// The autopilot stands in for the player so warp, combat, and scanning
// still see load.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.speed; i++ {
		if g.pilot != nil {
			g.pilot.step(g)
		}
		g.simulationStep()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Over reports whether the ship has been destroyed.
func (g *Game) Over() bool { return g.destroyed }

// Unload flushes output files and releases audio resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	}
	if g.synth != nil {
		g.synth.Cleanup()
	}
	if g.scene != nil {
		g.scene.Unload()
	}
}

// simTime returns seconds of simulated time since start.
func (g *Game) simTime() float64 {
	return float64(g.tick) * config.Cfg().Physics.DT
}

// unitOnline reports whether a subsystem can do its job. Unknown ids
// read as healthy.
func (g *Game) unitOnline(id string) bool {
	u, ok := g.systems.Unit(id)
	return !ok || u.Status != ship.StatusOffline
}
