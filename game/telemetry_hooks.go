package game

import (
	"log/slog"
	"math"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/telemetry"
)

// flushTelemetry closes a stats window when one is due, forwarding it
// to the log, the callback, and the CSV sinks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.shipSample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if g.outputManager == nil {
		return
	}
	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}

// shipSample condenses the ship into the per-window gauge readings.
func (g *Game) shipSample() telemetry.ShipSample {
	return telemetry.ShipSample{
		Hull:       float64(g.systems.Hull()),
		ShieldMean: float64(g.systems.Shields().Overall()),
		Alert:      string(g.systems.Alert()),
		WarpPhase:  string(g.drive.Phase()),
		Hostiles:   g.sector.HostileCount(),
	}
}

// recordFlightSample appends one flight recorder row at the configured
// cadence.
func (g *Game) recordFlightSample() {
	if g.outputManager == nil {
		return
	}
	interval := config.Cfg().Telemetry.FlightSampleSec
	if interval <= 0 {
		return
	}
	now := g.simTime()
	if now < g.nextFlightSample {
		return
	}
	g.nextFlightSample = now + interval

	const radToDeg = 180 / math.Pi
	euler := g.pose.Euler()
	row := telemetry.FlightRow{
		SimTimeSec: now,
		X:          float64(g.pose.Position.X),
		Y:          float64(g.pose.Position.Y),
		Z:          float64(g.pose.Position.Z),
		Speed:      float64(g.pose.Speed()),
		PitchDeg:   float64(euler.X) * radToDeg,
		YawDeg:     float64(euler.Y) * radToDeg,
		RollDeg:    float64(euler.Z) * radToDeg,
		Hull:       float64(g.systems.Hull()),
		ShieldMean: float64(g.systems.Shields().Overall()),
		WarpPhase:  string(g.drive.Phase()),
	}
	if err := g.outputManager.WriteFlight(row); err != nil {
		slog.Error("failed to write flight sample", "error", err)
	}
}

// saveSnapshot writes the full simulation state to the snapshot
// directory.
func (g *Game) saveSnapshot() {
	if g.snapshotDir == "" {
		return
	}
	path, err := telemetry.SaveSnapshot(g.createSnapshot(), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// loadSnapshot restores the newest snapshot in the snapshot directory.
func (g *Game) loadSnapshot() {
	if g.snapshotDir == "" {
		return
	}
	path := telemetry.LatestSnapshot(g.snapshotDir)
	if path == "" {
		slog.Info("no snapshot to load", "dir", g.snapshotDir)
		return
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		slog.Error("failed to load snapshot", "path", path, "error", err)
		return
	}
	g.restoreSnapshot(snap)
	slog.Info("snapshot loaded", "path", path, "tick", g.tick)
}

func (g *Game) createSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed:    g.rngSeed,
		Tick:    g.tick,
		Pose: telemetry.PoseState{
			Position: g.pose.Position,
			Rotation: g.pose.Rotation,
			Velocity: g.pose.Velocity,
		},
		Warp:    g.drive.Session(),
		Ship:    g.systems.Snapshot(),
		Weapons: g.battery.Snapshot(),
		Scanner: g.sensors.Snapshot(),
		Sector:  g.sector.Snapshot(),
	}
}

func (g *Game) restoreSnapshot(snap *telemetry.Snapshot) {
	g.tick = snap.Tick
	g.pose.Position = snap.Pose.Position
	g.pose.Rotation = snap.Pose.Rotation
	g.pose.Velocity = snap.Pose.Velocity
	g.drive.Restore(snap.Warp)
	g.systems.Restore(snap.Ship)
	g.battery.Restore(snap.Weapons)
	g.sensors.Restore(snap.Scanner)
	g.sector.Restore(snap.Sector)
	g.beam = nil
	g.destroyed = g.systems.Hull() <= 0
	g.nextFlightSample = g.simTime()
}
