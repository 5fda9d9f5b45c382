package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	mean, p50, p90 := ComputeSpeedStats(values)

	// Mean should be 55
	if math.Abs(mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", mean)
	}

	// P50 should be around 55
	if math.Abs(p50-55) > 0.1 {
		t.Errorf("p50 = %v, want ~55", p50)
	}

	// P90 should be around 91
	if math.Abs(p90-91) > 0.1 {
		t.Errorf("p90 = %v, want ~91", p90)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, p50, p90 := ComputeSpeedStats([]float64{})

	if mean != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeSpeedStatsUnsortedInput(t *testing.T) {
	// Callers pass raw per-tick samples, not pre-sorted ones.
	mean, p50, _ := ComputeSpeedStats([]float64{50, 10, 30})

	if math.Abs(mean-30) > 0.001 {
		t.Errorf("mean = %v, want 30", mean)
	}
	if math.Abs(p50-30) > 0.001 {
		t.Errorf("p50 = %v, want 30", p50)
	}
}

func TestCollectorWindowBoundaries(t *testing.T) {
	// 10 second windows at 60 ticks/sec = 600 ticks per window
	c := NewCollector(10.0, 1.0/60.0)

	if c.ShouldFlush(0) {
		t.Error("should not flush at tick 0")
	}
	if c.ShouldFlush(599) {
		t.Error("should not flush at tick 599")
	}
	if !c.ShouldFlush(600) {
		t.Error("should flush at tick 600")
	}

	c.Flush(600, ShipSample{})

	if c.ShouldFlush(1199) {
		t.Error("should not flush at tick 1199 after first flush")
	}
	if !c.ShouldFlush(1200) {
		t.Error("should flush at tick 1200 after first flush")
	}
}

func TestCollectorFlushAggregates(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.RecordPhaserFire(0.5)
	c.RecordPhaserFire(0.25)
	c.RecordTorpedoFired()
	c.RecordTorpedoFired()
	c.RecordTorpedoFired()
	c.RecordTorpedoFired()
	c.RecordTorpedoHit()
	c.RecordTorpedoHit()
	c.RecordTorpedoHit()
	c.RecordKill()
	c.RecordDamageDealt(120)
	c.RecordDamageTaken(35)
	c.RecordShotTaken()
	c.RecordShotTaken()
	c.RecordDebrisStrike()
	c.RecordWarpEngaged()
	c.RecordWarpCompleted()
	c.RecordScanCompleted()
	c.RecordScanFailed()
	c.RecordSpeed(100)
	c.RecordSpeed(200)

	sample := ShipSample{
		Hull:       72,
		ShieldMean: 48.5,
		Alert:      "yellow",
		WarpPhase:  "idle",
		Hostiles:   2,
	}
	stats := c.Flush(120, sample)

	if stats.WindowEndTick != 120 {
		t.Errorf("WindowEndTick = %d, want 120", stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-2.0) > 0.001 {
		t.Errorf("SimTimeSec = %v, want 2.0", stats.SimTimeSec)
	}
	if math.Abs(stats.PhaserSec-0.75) > 0.001 {
		t.Errorf("PhaserSec = %v, want 0.75", stats.PhaserSec)
	}
	if stats.TorpedoesFired != 4 || stats.TorpedoHits != 3 {
		t.Errorf("torpedoes = %d/%d, want 4 fired 3 hits", stats.TorpedoesFired, stats.TorpedoHits)
	}
	if math.Abs(stats.TorpedoHitRate-0.75) > 0.001 {
		t.Errorf("TorpedoHitRate = %v, want 0.75", stats.TorpedoHitRate)
	}
	if stats.Kills != 1 {
		t.Errorf("Kills = %d, want 1", stats.Kills)
	}
	if stats.DamageDealt != 120 || stats.DamageTaken != 35 {
		t.Errorf("damage = %v/%v, want 120 dealt 35 taken", stats.DamageDealt, stats.DamageTaken)
	}
	if stats.ShotsTaken != 2 || stats.DebrisStrikes != 1 {
		t.Errorf("shots/debris = %d/%d, want 2/1", stats.ShotsTaken, stats.DebrisStrikes)
	}
	if stats.WarpsEngaged != 1 || stats.WarpsCompleted != 1 {
		t.Errorf("warps = %d/%d, want 1/1", stats.WarpsEngaged, stats.WarpsCompleted)
	}
	if stats.ScansCompleted != 1 || stats.ScansFailed != 1 {
		t.Errorf("scans = %d/%d, want 1/1", stats.ScansCompleted, stats.ScansFailed)
	}
	if math.Abs(stats.SpeedMean-150) > 0.001 {
		t.Errorf("SpeedMean = %v, want 150", stats.SpeedMean)
	}
	if stats.Hull != 72 || stats.Alert != "yellow" || stats.Hostiles != 2 {
		t.Errorf("sample fields not carried: %+v", stats)
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.RecordTorpedoFired()
	c.RecordTorpedoHit()
	c.RecordKill()
	c.RecordDamageDealt(50)
	c.RecordSpeed(300)
	c.Flush(60, ShipSample{})

	second := c.Flush(120, ShipSample{})

	if second.TorpedoesFired != 0 || second.TorpedoHits != 0 || second.Kills != 0 {
		t.Errorf("counters not reset: %+v", second)
	}
	if second.TorpedoHitRate != 0 {
		t.Errorf("TorpedoHitRate = %v, want 0 with no launches", second.TorpedoHitRate)
	}
	if second.DamageDealt != 0 {
		t.Errorf("DamageDealt = %v, want 0", second.DamageDealt)
	}
	if second.SpeedMean != 0 {
		t.Errorf("SpeedMean = %v, want 0 with no samples", second.SpeedMean)
	}
}
