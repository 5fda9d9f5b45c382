// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Flight     FlightConfig     `yaml:"flight"`
	Warp       WarpConfig       `yaml:"warp"`
	Shields    ShieldsConfig    `yaml:"shields"`
	Hull       HullConfig       `yaml:"hull"`
	Subsystems SubsystemsConfig `yaml:"subsystems"`
	Weapons    WeaponsConfig    `yaml:"weapons"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	Camera     CameraConfig     `yaml:"camera"`
	Alert      AlertConfig      `yaml:"alert"`
	Universe   UniverseConfig   `yaml:"universe"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// FlightConfig holds impulse flight parameters.
type FlightConfig struct {
	MaxSpeed      float64 `yaml:"max_speed"`      // Impulse speed cap in units/sec
	Acceleration  float64 `yaml:"acceleration"`   // Linear acceleration in units/sec^2
	Drag          float64 `yaml:"drag"`           // Exponential velocity decay per second when coasting
	PitchRate     float64 `yaml:"pitch_rate"`     // Radians/sec at full deflection
	YawRate       float64 `yaml:"yaw_rate"`       // Radians/sec at full deflection
	RollRate      float64 `yaml:"roll_rate"`      // Radians/sec at full deflection
	InputDeadzone float64 `yaml:"input_deadzone"` // Axis magnitude below this = 0
}

// WarpConfig holds warp drive parameters.
type WarpConfig struct {
	BaseSpeed float64 `yaml:"base_speed"` // Cruise speed at warp 1; level n cruises at n^3 * this
	MaxLevel  int     `yaml:"max_level"`
	ChargeSec float64 `yaml:"charge_sec"`
	AccelSec  float64 `yaml:"accel_sec"`
	DecelSec  float64 `yaml:"decel_sec"`
	ArriveSec float64 `yaml:"arrive_sec"`
	Clearance float64 `yaml:"clearance"`  // Standoff distance beyond target radius at arrival
}

// ShieldsConfig holds deflector shield parameters.
type ShieldsConfig struct {
	Max           float64 `yaml:"max"`             // Per-quadrant capacity
	RegenRate     float64 `yaml:"regen_rate"`      // Points/sec per quadrant once regen starts
	RegenDelaySec float64 `yaml:"regen_delay_sec"` // Quiet time after a hit before regen resumes
	BleedRatio    float64 `yaml:"bleed_ratio"`     // Fraction of a hit passed to hull when the struck quadrant ends depleted
}

// HullConfig holds hull integrity parameters.
type HullConfig struct {
	Max float64 `yaml:"max"`
}

// SubsystemsConfig holds ship subsystem parameters.
type SubsystemsConfig struct {
	DamagedThreshold float64           `yaml:"damaged_threshold"`  // Power fraction below which a unit reads damaged
	CascadeChance    float64           `yaml:"cascade_chance"`     // Probability a heavy hull hit also damages a unit
	CascadeMinDamage float64           `yaml:"cascade_min_damage"` // Hull damage above this can cascade
	CascadeFraction  float64           `yaml:"cascade_fraction"`   // Share of the hull hit passed to the unit's power
	Units            []SubsystemConfig `yaml:"units"`
}

// SubsystemConfig defines one ship subsystem.
type SubsystemConfig struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	MaxPower   float64 `yaml:"max_power"`
	ChargeRate float64 `yaml:"charge_rate"` // Power/sec regained while idle or drainless
	DrainRate  float64 `yaml:"drain_rate"`  // Power/sec lost while in active use
	Active     bool    `yaml:"active"`      // Initial activation state
}

// WeaponsConfig holds weapon parameters.
type WeaponsConfig struct {
	Phaser      PhaserConfig  `yaml:"phaser"`
	Torpedo     TorpedoConfig `yaml:"torpedo"`
	TargetRange float64       `yaml:"target_range"` // Max distance for target cycling
}

// PhaserConfig holds phaser bank parameters.
type PhaserConfig struct {
	HeatRate float64 `yaml:"heat_rate"` // Heat gain/sec while firing
	CoolRate float64 `yaml:"cool_rate"` // Heat loss/sec while idle
	MaxHeat  float64 `yaml:"max_heat"`  // Overheat lockout threshold
	DPS      float64 `yaml:"dps"`       // Damage/sec against the locked target
	Range    float64 `yaml:"range"`     // Beam reach
}

// TorpedoConfig holds torpedo launcher parameters.
type TorpedoConfig struct {
	Capacity    int     `yaml:"capacity"`
	ReloadSec   float64 `yaml:"reload_sec"`   // Tube lockout after each launch
	Damage      float64 `yaml:"damage"`
	Speed       float64 `yaml:"speed"`
	Range       float64 `yaml:"range"`        // Travel distance before fizzle
	BlastRadius float64 `yaml:"blast_radius"` // Proximity detonation distance
}

// ScannerConfig holds sensor sweep parameters.
type ScannerConfig struct {
	MaxRange      float64 `yaml:"max_range"`
	DurationSec   float64 `yaml:"duration_sec"`
	UnknownReport string  `yaml:"unknown_report"` // Shown when a completed scan has no catalog entry
}

// CameraConfig holds camera rig parameters.
type CameraConfig struct {
	Fovy     float64        `yaml:"fovy"`
	Chase    ChaseConfig    `yaml:"chase"`
	Orbit    OrbitConfig    `yaml:"orbit"`
	FreeLook FreeLookConfig `yaml:"free_look"`
}

// ChaseConfig holds chase rig parameters.
type ChaseConfig struct {
	BackDistance  float64 `yaml:"back_distance"`  // Behind the ship along -forward
	Height        float64 `yaml:"height"`         // Above the ship along +up
	LookAhead     float64 `yaml:"look_ahead"`     // Look target distance in front of the ship
	LookSmoothing float64 `yaml:"look_smoothing"` // Look target lerp rate per second
}

// OrbitConfig holds cinematic orbit rig parameters.
type OrbitConfig struct {
	Radius       float64 `yaml:"radius"`
	Height       float64 `yaml:"height"`
	Speed        float64 `yaml:"speed"`         // Radians/sec of orbit
	BobAmplitude float64 `yaml:"bob_amplitude"` // Slow vertical sway
	BobPeriod    float64 `yaml:"bob_period"`    // Seconds per sway cycle
}

// FreeLookConfig holds free-look/photo rig parameters.
type FreeLookConfig struct {
	Sensitivity float64 `yaml:"sensitivity"`  // Radians per pixel of mouse travel
	ZoomStep    float64 `yaml:"zoom_step"`    // Distance change per wheel notch
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	MaxPitch    float64 `yaml:"max_pitch"`    // Radians, clamps vertical orbit
}

// AlertConfig holds alert level thresholds.
type AlertConfig struct {
	RedHull       float64 `yaml:"red_hull"`       // Hull below this = red
	RedShields    float64 `yaml:"red_shields"`    // Overall shields below this = red
	YellowHull    float64 `yaml:"yellow_hull"`    // Hull below this = yellow
	YellowShields float64 `yaml:"yellow_shields"` // Overall shields below this = yellow
}

// UniverseConfig holds the scripted sector layout.
type UniverseConfig struct {
	Bodies   []BodyConfig  `yaml:"bodies"`
	Hostiles HostileConfig `yaml:"hostiles"`
	Debris   DebrisConfig  `yaml:"debris"`
}

// BodyConfig defines one fixed destination body.
type BodyConfig struct {
	Name   string  `yaml:"name"`
	Class  string  `yaml:"class"`  // Free-form classification shown by the scanner
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Report string  `yaml:"report"` // Scan payload
}

// HostileConfig holds hostile contact parameters.
type HostileConfig struct {
	Count           int     `yaml:"count"`
	AnchorBody      string  `yaml:"anchor_body"`       // Body name the patrol spreads around (empty = sector origin)
	SpawnRadius     float64 `yaml:"spawn_radius"`
	PatrolRadius    float64 `yaml:"patrol_radius"`
	Speed           float64 `yaml:"speed"`
	Hull            float64 `yaml:"hull"`
	Damage          float64 `yaml:"damage"`
	FireIntervalSec float64 `yaml:"fire_interval_sec"`
	FireRange       float64 `yaml:"fire_range"`
}

// DebrisConfig holds drifting debris parameters.
type DebrisConfig struct {
	Count       int     `yaml:"count"`
	AnchorBody  string  `yaml:"anchor_body"`  // Body whose position centers the field
	FieldRadius float64 `yaml:"field_radius"` // Scatter radius around the anchor
	DriftSpeed  float64 `yaml:"drift_speed"`
	Damage      float64 `yaml:"damage"`       // Hull-path damage per strike
	HitRadius   float64 `yaml:"hit_radius"`   // Collision distance against the ship
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`      // Seconds per combat stats window
	FlightSampleSec float64 `yaml:"flight_sample_sec"` // Seconds between flight log rows
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32        // Physics.DT as float32
	ScreenW32    float32        // Screen.Width as float32
	ScreenH32    float32        // Screen.Height as float32
	WarpSpeeds   []float32      // Cruise speed indexed by warp level (index 0 unused)
	MaxWarpSpeed float32        // Cruise speed at max_level
	UnitIndex    map[string]int // Subsystem id -> index into Subsystems.Units
	BodyIndex    map[string]int // Body name -> index into Universe.Bodies
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration and recomputes derived values.
// Used by tools that evaluate many parameter sets in one process.
func Set(cfg *Config) {
	cfg.computeDerived()
	global = cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Cruise speed table: level n runs at n^3 * base_speed
	if c.Warp.MaxLevel < 1 {
		c.Warp.MaxLevel = 1
	}
	c.Derived.WarpSpeeds = make([]float32, c.Warp.MaxLevel+1)
	for lvl := 1; lvl <= c.Warp.MaxLevel; lvl++ {
		n := float64(lvl)
		c.Derived.WarpSpeeds[lvl] = float32(n * n * n * c.Warp.BaseSpeed)
	}
	c.Derived.MaxWarpSpeed = c.Derived.WarpSpeeds[c.Warp.MaxLevel]

	// Synthesize the standard subsystem set if none specified
	if len(c.Subsystems.Units) == 0 {
		c.Subsystems.Units = []SubsystemConfig{
			{ID: "engines", Name: "Impulse Engines", MaxPower: 100, ChargeRate: 6, DrainRate: 0.6, Active: true},
			{ID: "warp_core", Name: "Warp Core", MaxPower: 100, ChargeRate: 5, DrainRate: 0.5, Active: true},
			{ID: "shields", Name: "Shield Generator", MaxPower: 100, ChargeRate: 5, DrainRate: 0.3, Active: true},
			{ID: "weapons", Name: "Weapons Array", MaxPower: 100, ChargeRate: 6, DrainRate: 2, Active: true},
			{ID: "sensors", Name: "Sensor Suite", MaxPower: 100, ChargeRate: 8, DrainRate: 2.5, Active: true},
			{ID: "life_support", Name: "Life Support", MaxPower: 100, ChargeRate: 4, Active: true},
		}
	}
	for i := range c.Subsystems.Units {
		u := &c.Subsystems.Units[i]
		if u.MaxPower == 0 {
			u.MaxPower = 100
		}
		if u.Name == "" {
			u.Name = u.ID
		}
		if u.ChargeRate == 0 {
			u.ChargeRate = 5
		}
	}

	// Build lookup indexes
	c.Derived.UnitIndex = make(map[string]int, len(c.Subsystems.Units))
	for i, u := range c.Subsystems.Units {
		c.Derived.UnitIndex[u.ID] = i
	}
	c.Derived.BodyIndex = make(map[string]int, len(c.Universe.Bodies))
	for i, b := range c.Universe.Bodies {
		c.Derived.BodyIndex[b.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
