package ship

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
)

// Status is a subsystem's operational readout.
type Status string

const (
	StatusOnline   Status = "online"
	StatusDamaged  Status = "damaged"
	StatusOffline  Status = "offline"
	StatusCharging Status = "charging"
)

// Subsystem ids from the default loadout. Operations gated on a unit
// treat an unknown id as present and healthy.
const (
	UnitEngines     = "engines"
	UnitWarpCore    = "warp_core"
	UnitShields     = "shields"
	UnitWeapons     = "weapons"
	UnitSensors     = "sensors"
	UnitLifeSupport = "life_support"
)

// Subsystem is one powered ship system. Status is derived from power and
// the activation flag, never stored as independent truth.
type Subsystem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     Status  `json:"status"`
	Power      float32 `json:"power"`
	MaxPower   float32 `json:"max_power"`
	ChargeRate float32 `json:"charge_rate"`
	DrainRate  float32 `json:"drain_rate"`
	Active     bool    `json:"active"`
}

// deriveStatus maps power and activation to a status. Zero power reads
// offline; a deactivated unit below capacity reads charging; below the
// damaged threshold reads damaged; everything else is online.
func deriveStatus(u Subsystem) Status {
	switch {
	case u.Power <= 0:
		return StatusOffline
	case !u.Active && u.Power < u.MaxPower:
		return StatusCharging
	case u.Power < u.MaxPower*float32(config.Cfg().Subsystems.DamagedThreshold):
		return StatusDamaged
	default:
		return StatusOnline
	}
}

// nextSubsystems builds the next tick's registry from the previous one.
// The previous map is never mutated, so readers holding it stay valid.
// Offline units are carried over untouched; they rejoin power updates
// only after an explicit repair.
func nextSubsystems(prev map[string]Subsystem, dt float32) map[string]Subsystem {
	next := make(map[string]Subsystem, len(prev))
	for id, u := range prev {
		if u.Status == StatusOffline {
			next[id] = u
			continue
		}
		if u.Active && u.DrainRate > 0 {
			u.Power -= u.DrainRate * dt
		} else {
			u.Power += u.ChargeRate * dt
		}
		u.Power = rl.Clamp(u.Power, 0, u.MaxPower)
		u.Status = deriveStatus(u)
		next[id] = u
	}
	return next
}

// newSubsystems builds the initial registry from configuration.
func newSubsystems() map[string]Subsystem {
	cfg := config.Cfg()
	units := make(map[string]Subsystem, len(cfg.Subsystems.Units))
	for _, uc := range cfg.Subsystems.Units {
		u := Subsystem{
			ID:         uc.ID,
			Name:       uc.Name,
			Power:      float32(uc.MaxPower),
			MaxPower:   float32(uc.MaxPower),
			ChargeRate: float32(uc.ChargeRate),
			DrainRate:  float32(uc.DrainRate),
			Active:     uc.Active,
		}
		u.Status = deriveStatus(u)
		units[uc.ID] = u
	}
	return units
}
