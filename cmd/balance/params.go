package main

import (
	"github.com/lcrow/starhelm/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Shields (max locked at 100)
			{Name: "shield_regen_rate", Path: "shields.regen_rate", Min: 2.0, Max: 12.0, Default: 4.0},
			{Name: "shield_regen_delay", Path: "shields.regen_delay_sec", Min: 1.0, Max: 8.0, Default: 5.0},
			{Name: "shield_bleed_ratio", Path: "shields.bleed_ratio", Min: 0.2, Max: 0.8, Default: 0.5},
			// Subsystems
			{Name: "cascade_chance", Path: "subsystems.cascade_chance", Min: 0.05, Max: 0.7, Default: 0.3},
			// Phaser (max_heat locked at 100)
			{Name: "phaser_heat_rate", Path: "weapons.phaser.heat_rate", Min: 12.0, Max: 45.0, Default: 25.0},
			{Name: "phaser_cool_rate", Path: "weapons.phaser.cool_rate", Min: 6.0, Max: 30.0, Default: 12.5},
			{Name: "phaser_dps", Path: "weapons.phaser.dps", Min: 8.0, Max: 40.0, Default: 18.0},
			// Torpedoes
			{Name: "torpedo_damage", Path: "weapons.torpedo.damage", Min: 20.0, Max: 80.0, Default: 40.0},
			{Name: "torpedo_reload", Path: "weapons.torpedo.reload_sec", Min: 1.5, Max: 10.0, Default: 4.0},
			// Raiders
			{Name: "raider_hull", Path: "universe.hostiles.hull", Min: 25.0, Max: 140.0, Default: 60.0},
			{Name: "raider_damage", Path: "universe.hostiles.damage", Min: 3.0, Max: 18.0, Default: 8.0},
			{Name: "raider_fire_interval", Path: "universe.hostiles.fire_interval_sec", Min: 1.0, Max: 6.0, Default: 2.5},
			{Name: "raider_fire_range", Path: "universe.hostiles.fire_range", Min: 350.0, Max: 1100.0, Default: 650.0},
			{Name: "raider_speed", Path: "universe.hostiles.speed", Min: 10.0, Max: 60.0, Default: 26.0},
			// Debris
			{Name: "debris_damage", Path: "universe.debris.damage", Min: 3.0, Max: 22.0, Default: 12.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Apply each parameter to the config
	// Order must match Specs order
	i := 0

	// Shields (max locked)
	cfg.Shields.Max = 100
	cfg.Shields.RegenRate = clamped[i]
	i++
	cfg.Shields.RegenDelaySec = clamped[i]
	i++
	cfg.Shields.BleedRatio = clamped[i]
	i++

	// Subsystems
	cfg.Subsystems.CascadeChance = clamped[i]
	i++

	// Phaser (max_heat locked)
	cfg.Weapons.Phaser.MaxHeat = 100
	cfg.Weapons.Phaser.HeatRate = clamped[i]
	i++
	cfg.Weapons.Phaser.CoolRate = clamped[i]
	i++
	cfg.Weapons.Phaser.DPS = clamped[i]
	i++

	// Torpedoes
	cfg.Weapons.Torpedo.Damage = clamped[i]
	i++
	cfg.Weapons.Torpedo.ReloadSec = clamped[i]
	i++

	// Raiders
	cfg.Universe.Hostiles.Hull = clamped[i]
	i++
	cfg.Universe.Hostiles.Damage = clamped[i]
	i++
	cfg.Universe.Hostiles.FireIntervalSec = clamped[i]
	i++
	cfg.Universe.Hostiles.FireRange = clamped[i]
	i++
	cfg.Universe.Hostiles.Speed = clamped[i]
	i++

	// Debris
	cfg.Universe.Debris.Damage = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Shields.RegenRate,
		cfg.Shields.RegenDelaySec,
		cfg.Shields.BleedRatio,
		cfg.Subsystems.CascadeChance,
		cfg.Weapons.Phaser.HeatRate,
		cfg.Weapons.Phaser.CoolRate,
		cfg.Weapons.Phaser.DPS,
		cfg.Weapons.Torpedo.Damage,
		cfg.Weapons.Torpedo.ReloadSec,
		cfg.Universe.Hostiles.Hull,
		cfg.Universe.Hostiles.Damage,
		cfg.Universe.Hostiles.FireIntervalSec,
		cfg.Universe.Hostiles.FireRange,
		cfg.Universe.Hostiles.Speed,
		cfg.Universe.Debris.Damage,
	}
}
