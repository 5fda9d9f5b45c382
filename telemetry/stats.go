package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Ship state sampled at window end
	Hull       float64 `csv:"hull"`
	ShieldMean float64 `csv:"shield_mean"`
	Alert      string  `csv:"alert"`
	WarpPhase  string  `csv:"warp_phase"`
	Hostiles   int     `csv:"hostiles"`

	// Flight over the window
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Combat events during the window
	PhaserSec      float64 `csv:"phaser_sec"`
	TorpedoesFired int     `csv:"torpedoes_fired"`
	TorpedoHits    int     `csv:"torpedo_hits"`
	TorpedoHitRate float64 `csv:"torpedo_hit_rate"`
	Kills          int     `csv:"kills"`
	DamageDealt    float64 `csv:"damage_dealt"`
	DamageTaken    float64 `csv:"damage_taken"`
	ShotsTaken     int     `csv:"shots_taken"`
	DebrisStrikes  int     `csv:"debris_strikes"`

	// Navigation and sensing events
	WarpsEngaged   int `csv:"warps_engaged"`
	WarpsCompleted int `csv:"warps_completed"`
	ScansCompleted int `csv:"scans_completed"`
	ScansFailed    int `csv:"scans_failed"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean and percentiles from speed samples.
func ComputeSpeedStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p50, p90
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"hull", s.Hull,
		"shield_mean", s.ShieldMean,
		"alert", s.Alert,
		"warp_phase", s.WarpPhase,
		"hostiles", s.Hostiles,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"phaser_sec", s.PhaserSec,
		"torpedoes_fired", s.TorpedoesFired,
		"torpedo_hits", s.TorpedoHits,
		"torpedo_hit_rate", s.TorpedoHitRate,
		"kills", s.Kills,
		"damage_dealt", s.DamageDealt,
		"damage_taken", s.DamageTaken,
		"shots_taken", s.ShotsTaken,
		"debris_strikes", s.DebrisStrikes,
		"warps_engaged", s.WarpsEngaged,
		"warps_completed", s.WarpsCompleted,
		"scans_completed", s.ScansCompleted,
		"scans_failed", s.ScansFailed,
	)
}
