package main

import (
	"math"
	"sync"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/game"
	"github.com/lcrow/starhelm/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before hull loss (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// All seeds share the same parameters, so publish the config once
	// before the parallel launch. Runs only read it after this point.
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	config.Set(cfg)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: fe.computeQuality(result.windowStats),
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until the ship is destroyed or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(seed int64) *runResult {
	result := &runResult{}

	// Config was published by Evaluate; the game only reads it here.
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.Over() {
			result.survivalTicks = g.Tick()
			g.Unload()
			return result
		}
	}

	// Survived the full run
	result.survivalTicks = fe.maxTicks
	g.Unload()
	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	// Load fresh defaults and copy base values
	cfg, _ := config.Load("")

	cfg.Screen = fe.baseConfig.Screen
	cfg.Physics = fe.baseConfig.Physics
	cfg.Flight = fe.baseConfig.Flight
	cfg.Warp = fe.baseConfig.Warp
	cfg.Shields = fe.baseConfig.Shields
	cfg.Hull = fe.baseConfig.Hull
	cfg.Subsystems = fe.baseConfig.Subsystems
	cfg.Weapons = fe.baseConfig.Weapons
	cfg.Scanner = fe.baseConfig.Scanner
	cfg.Camera = fe.baseConfig.Camera
	cfg.Alert = fe.baseConfig.Alert
	cfg.Universe = fe.baseConfig.Universe
	cfg.Telemetry = fe.baseConfig.Telemetry

	return cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := fe.computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightThreat    = 0.30
	qualityWeightHull      = 0.25
	qualityWeightClearance = 0.25
	qualityWeightTorpedo   = 0.20

	qualityWarmupWindows = 3 // skip first N windows (transit to the raider pocket)
)

// computeQuality computes encounter quality ∈ [0, 1] from window stats.
// A good config keeps the raiders dangerous without making them unbeatable:
// the ship takes real damage, rides at a hull margin rather than full health,
// clears the pocket eventually, and lands a reasonable share of torpedoes.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	valid := windows[qualityWarmupWindows:]

	// --- Per-window accumulators ---
	var threatSum, hullSum, torpSum float64
	var torpCount int

	// Kills count from the whole run, warmup included
	var kills int

	for _, w := range windows {
		kills += w.Kills
	}

	for _, w := range valid {
		// 1. Threat score: the raiders should actually land damage
		threatSum += 1.0 - math.Exp(-w.DamageTaken/20.0)

		// 2. Hull margin score: best fights ride around 55% hull
		hullSum += math.Exp(-math.Pow((w.Hull-55.0)/25.0, 2))

		// 3. Torpedo score (only when tubes were used)
		if w.TorpedoesFired > 0 {
			torpSum += math.Exp(-math.Pow((w.TorpedoHitRate-0.5)/0.3, 2))
			torpCount++
		}
	}

	n := float64(len(valid))
	threatScore := threatSum / n
	hullScore := hullSum / n

	// 4. Clearance score: fraction of the initial raider pocket destroyed
	clearanceScore := 0.0
	if fe.baseConfig.Universe.Hostiles.Count > 0 {
		clearanceScore = clamp01(float64(kills) / float64(fe.baseConfig.Universe.Hostiles.Count))
	}

	torpScore := 0.0
	if torpCount > 0 {
		torpScore = torpSum / float64(torpCount)
	}

	quality := qualityWeightThreat*threatScore +
		qualityWeightHull*hullScore +
		qualityWeightClearance*clearanceScore +
		qualityWeightTorpedo*torpScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
