package telemetry

import "math"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	phaserSec      float64
	torpedoesFired int
	torpedoHits    int
	kills          int
	damageDealt    float64
	damageTaken    float64
	shotsTaken     int
	debrisStrikes  int
	warpsEngaged   int
	warpsCompleted int
	scansCompleted int
	scansFailed    int

	speedSamples []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	// Round so a 10s window at 60Hz lands on exactly 600 ticks even
	// when dt carries float32 error.
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordPhaserFire records dt seconds of open beam.
func (c *Collector) RecordPhaserFire(dt float32) {
	c.phaserSec += float64(dt)
}

// RecordTorpedoFired records a torpedo launch.
func (c *Collector) RecordTorpedoFired() {
	c.torpedoesFired++
}

// RecordTorpedoHit records a torpedo detonation against a raider.
func (c *Collector) RecordTorpedoHit() {
	c.torpedoHits++
}

// RecordKill records a destroyed raider.
func (c *Collector) RecordKill() {
	c.kills++
}

// RecordDamageDealt records damage done to raiders.
func (c *Collector) RecordDamageDealt(amount float32) {
	c.damageDealt += float64(amount)
}

// RecordDamageTaken records damage absorbed by shields or hull.
func (c *Collector) RecordDamageTaken(amount float32) {
	c.damageTaken += float64(amount)
}

// RecordShotTaken records an incoming raider volley.
func (c *Collector) RecordShotTaken() {
	c.shotsTaken++
}

// RecordDebrisStrike records a debris impact.
func (c *Collector) RecordDebrisStrike() {
	c.debrisStrikes++
}

// RecordWarpEngaged records a warp session start.
func (c *Collector) RecordWarpEngaged() {
	c.warpsEngaged++
}

// RecordWarpCompleted records a warp session that reached its arrival point.
func (c *Collector) RecordWarpCompleted() {
	c.warpsCompleted++
}

// RecordScanCompleted records a finished sensor sweep.
func (c *Collector) RecordScanCompleted() {
	c.scansCompleted++
}

// RecordScanFailed records an aborted or refused sensor sweep.
func (c *Collector) RecordScanFailed() {
	c.scansFailed++
}

// RecordSpeed adds one per-tick speed sample for percentile tracking.
func (c *Collector) RecordSpeed(speed float32) {
	c.speedSamples = append(c.speedSamples, float64(speed))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// ShipSample holds ship state read at window end.
type ShipSample struct {
	Hull       float64
	ShieldMean float64
	Alert      string
	WarpPhase  string
	Hostiles   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample ShipSample) WindowStats {
	var hitRate float64
	if c.torpedoesFired > 0 {
		hitRate = float64(c.torpedoHits) / float64(c.torpedoesFired)
	}

	speedMean, speedP50, speedP90 := ComputeSpeedStats(c.speedSamples)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Hull:       sample.Hull,
		ShieldMean: sample.ShieldMean,
		Alert:      sample.Alert,
		WarpPhase:  sample.WarpPhase,
		Hostiles:   sample.Hostiles,

		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		PhaserSec:      c.phaserSec,
		TorpedoesFired: c.torpedoesFired,
		TorpedoHits:    c.torpedoHits,
		TorpedoHitRate: hitRate,
		Kills:          c.kills,
		DamageDealt:    c.damageDealt,
		DamageTaken:    c.damageTaken,
		ShotsTaken:     c.shotsTaken,
		DebrisStrikes:  c.debrisStrikes,

		WarpsEngaged:   c.warpsEngaged,
		WarpsCompleted: c.warpsCompleted,
		ScansCompleted: c.scansCompleted,
		ScansFailed:    c.scansFailed,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.phaserSec = 0
	c.torpedoesFired = 0
	c.torpedoHits = 0
	c.kills = 0
	c.damageDealt = 0
	c.damageTaken = 0
	c.shotsTaken = 0
	c.debrisStrikes = 0
	c.warpsEngaged = 0
	c.warpsCompleted = 0
	c.scansCompleted = 0
	c.scansFailed = 0
	c.speedSamples = c.speedSamples[:0]

	return stats
}
