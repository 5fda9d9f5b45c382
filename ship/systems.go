// Package ship models the vessel's defensive and support systems: the
// four-quadrant shield envelope, hull integrity, the powered subsystem
// registry, and the alert condition derived from all of them.
package ship

import (
	"math"
	"math/rand"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
)

// Quadrant names one face of the shield envelope.
type Quadrant string

const (
	QuadrantFront     Quadrant = "front"
	QuadrantRear      Quadrant = "rear"
	QuadrantPort      Quadrant = "port"
	QuadrantStarboard Quadrant = "starboard"
)

// quadrantOrder fixes iteration order for omni damage and random picks.
var quadrantOrder = [4]Quadrant{QuadrantFront, QuadrantRear, QuadrantPort, QuadrantStarboard}

// Alert is the ship-wide readiness condition.
type Alert string

const (
	AlertGreen  Alert = "green"
	AlertYellow Alert = "yellow"
	AlertRed    Alert = "red"
)

// Shields holds the four quadrant strengths and the envelope flag.
// Overall strength is always the quadrant mean, recomputed on read.
type Shields struct {
	Front     float32 `json:"front"`
	Rear      float32 `json:"rear"`
	Port      float32 `json:"port"`
	Starboard float32 `json:"starboard"`
	Online    bool    `json:"online"`
}

// Overall returns the mean of the four quadrants.
func (s Shields) Overall() float32 {
	return (s.Front + s.Rear + s.Port + s.Starboard) / 4
}

func (s *Shields) quadrant(q Quadrant) *float32 {
	switch q {
	case QuadrantRear:
		return &s.Rear
	case QuadrantPort:
		return &s.Port
	case QuadrantStarboard:
		return &s.Starboard
	default:
		return &s.Front
	}
}

// State is the serializable snapshot of the damage model. Subsystems are
// stored as a slice sorted by id so snapshot files are stable.
type State struct {
	Shields        Shields     `json:"shields"`
	Hull           float32     `json:"hull"`
	Subsystems     []Subsystem `json:"subsystems"`
	SinceShieldHit float32     `json:"since_shield_hit"`
	DownCueArmed   bool        `json:"down_cue_armed"`
}

// Systems owns the ship's damage model. All mutation goes through its
// methods so the overall-strength, alert, and notification invariants
// hold after every call.
type Systems struct {
	rng      *rand.Rand
	notifier audio.Notifier

	shields        Shields
	hull           float32
	units          map[string]Subsystem
	sinceShieldHit float32
	downCueArmed   bool
	alert          Alert
}

// NewSystems builds a ship at full readiness from configuration. The rng
// drives cascade rolls and debris quadrant picks; pass nil for a notifier
// to discard cues.
func NewSystems(rng *rand.Rand, notifier audio.Notifier) *Systems {
	if notifier == nil {
		notifier = audio.Nop{}
	}
	cfg := config.Cfg()
	max := float32(cfg.Shields.Max)
	s := &Systems{
		rng:      rng,
		notifier: notifier,
		shields: Shields{
			Front: max, Rear: max, Port: max, Starboard: max,
			Online: true,
		},
		hull:         float32(cfg.Hull.Max),
		units:        newSubsystems(),
		downCueArmed: true,
	}
	s.alert = s.deriveAlert()
	return s
}

// Shields returns the current shield readout.
func (s *Systems) Shields() Shields { return s.shields }

// Hull returns current hull integrity.
func (s *Systems) Hull() float32 { return s.hull }

// Alert returns the current alert condition.
func (s *Systems) Alert() Alert { return s.alert }

// Subsystems returns the current registry. The map is replaced, not
// mutated, each tick, so callers may hold it across frames but must
// treat it as read-only.
func (s *Systems) Subsystems() map[string]Subsystem { return s.units }

// Unit looks up a single subsystem by id.
func (s *Systems) Unit(id string) (Subsystem, bool) {
	u, ok := s.units[id]
	return u, ok
}

// Update advances regeneration, subsystem power flow, and the alert
// condition by dt seconds.
func (s *Systems) Update(dt float32) {
	cfg := config.Cfg()
	s.sinceShieldHit += dt

	if s.shields.Online && s.sinceShieldHit >= float32(cfg.Shields.RegenDelaySec) {
		max := float32(cfg.Shields.Max)
		step := float32(cfg.Shields.RegenRate) * dt
		for _, q := range quadrantOrder {
			v := s.shields.quadrant(q)
			*v = rl.Clamp(*v+step, 0, max)
		}
	}

	prev := s.units
	s.units = nextSubsystems(prev, dt)
	for id, u := range s.units {
		if u.Status == StatusOffline && prev[id].Status != StatusOffline {
			s.notifier.Notify(audio.CueSubsystemOffline)
		}
	}

	s.refreshAlert()
}

// DamageShields spreads an omnidirectional hit evenly across all four
// quadrants. Unlike a directional hit it never bleeds into the hull.
func (s *Systems) DamageShields(amount float32) {
	if amount <= 0 {
		return
	}
	max := float32(config.Cfg().Shields.Max)
	share := amount / 4
	s.sinceShieldHit = 0
	for _, q := range quadrantOrder {
		v := s.shields.quadrant(q)
		*v = rl.Clamp(*v-share, 0, max)
	}
	s.checkShieldsDown()
	s.refreshAlert()
}

// DamageQuadrant applies a directional hit to one quadrant. If the
// quadrant is driven to zero, half of the hit bleeds through to the hull.
func (s *Systems) DamageQuadrant(q Quadrant, amount float32) {
	if amount <= 0 {
		return
	}
	cfg := config.Cfg()
	s.sinceShieldHit = 0
	v := s.shields.quadrant(q)
	*v = rl.Clamp(*v-amount, 0, float32(cfg.Shields.Max))
	if *v <= 0 {
		s.applyHull(amount*float32(cfg.Shields.BleedRatio), false)
	}
	s.checkShieldsDown()
	s.refreshAlert()
}

// DamageHull applies damage directly to hull integrity. Large hits may
// cascade into a random subsystem.
func (s *Systems) DamageHull(amount float32) {
	if amount <= 0 {
		return
	}
	s.applyHull(amount, true)
	s.refreshAlert()
}

// DebrisHit resolves a debris strike: a random quadrant takes the
// configured amount while the envelope holds, otherwise half of it lands
// on the hull.
func (s *Systems) DebrisHit() {
	cfg := config.Cfg()
	amount := float32(cfg.Universe.Debris.Damage)
	s.notifier.Notify(audio.CueDebrisImpact)
	if s.shields.Online && s.shields.Overall() > 0 {
		q := quadrantOrder[0]
		if s.rng != nil {
			q = quadrantOrder[s.rng.Intn(len(quadrantOrder))]
		}
		s.DamageQuadrant(q, amount)
		return
	}
	s.DamageHull(amount / 2)
}

// Repair restores power to a subsystem, reviving it if it was offline.
func (s *Systems) Repair(id string, amount float32) bool {
	u, ok := s.units[id]
	if !ok || amount <= 0 {
		return false
	}
	u.Power = rl.Clamp(u.Power+amount, 0, u.MaxPower)
	u.Status = deriveStatus(u)
	s.units = cloneWith(s.units, u)
	return true
}

// RepairHull restores hull integrity up to its maximum. Hull never
// regenerates on its own.
func (s *Systems) RepairHull(amount float32) {
	if amount <= 0 {
		return
	}
	s.hull = rl.Clamp(s.hull+amount, 0, float32(config.Cfg().Hull.Max))
	s.refreshAlert()
}

// RestoreShields raises every quadrant by amount, brings the envelope
// back online, and re-arms the shields-down notification.
func (s *Systems) RestoreShields(amount float32) {
	if amount <= 0 {
		return
	}
	max := float32(config.Cfg().Shields.Max)
	for _, q := range quadrantOrder {
		v := s.shields.quadrant(q)
		*v = rl.Clamp(*v+amount, 0, max)
	}
	if s.shields.Overall() > 0 {
		s.shields.Online = true
		s.downCueArmed = true
	}
	s.refreshAlert()
}

// SetActive marks a subsystem as in use or idle. Active drain and idle
// recharge follow from this flag on the next update.
func (s *Systems) SetActive(id string, active bool) {
	u, ok := s.units[id]
	if !ok || u.Active == active {
		return
	}
	u.Active = active
	if u.Status != StatusOffline {
		u.Status = deriveStatus(u)
	}
	s.units = cloneWith(s.units, u)
}

// Snapshot captures the full damage model for persistence.
func (s *Systems) Snapshot() State {
	ids := make([]string, 0, len(s.units))
	for id := range s.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	units := make([]Subsystem, 0, len(ids))
	for _, id := range ids {
		units = append(units, s.units[id])
	}
	return State{
		Shields:        s.shields,
		Hull:           s.hull,
		Subsystems:     units,
		SinceShieldHit: s.sinceShieldHit,
		DownCueArmed:   s.downCueArmed,
	}
}

// Restore replaces the damage model with a previously captured state.
func (s *Systems) Restore(st State) {
	s.shields = st.Shields
	s.hull = st.Hull
	s.sinceShieldHit = st.SinceShieldHit
	s.downCueArmed = st.DownCueArmed
	units := make(map[string]Subsystem, len(st.Subsystems))
	for _, u := range st.Subsystems {
		units[u.ID] = u
	}
	s.units = units
	s.alert = s.deriveAlert()
}

// applyHull decreases hull integrity. When cascade is set, hits above the
// configured floor may knock power out of one random subsystem.
func (s *Systems) applyHull(amount float32, cascade bool) {
	cfg := config.Cfg()
	s.hull = rl.Clamp(s.hull-amount, 0, float32(cfg.Hull.Max))
	if !cascade || s.rng == nil {
		return
	}
	if float64(amount) <= cfg.Subsystems.CascadeMinDamage {
		return
	}
	if s.rng.Float64() >= cfg.Subsystems.CascadeChance {
		return
	}
	ids := make([]string, 0, len(s.units))
	for id := range s.units {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	sort.Strings(ids)
	u := s.units[ids[s.rng.Intn(len(ids))]]
	wasOffline := u.Status == StatusOffline
	u.Power = rl.Clamp(u.Power-amount*float32(cfg.Subsystems.CascadeFraction), 0, u.MaxPower)
	u.Status = deriveStatus(u)
	s.units = cloneWith(s.units, u)
	if u.Status == StatusOffline && !wasOffline {
		s.notifier.Notify(audio.CueSubsystemOffline)
	}
}

// checkShieldsDown drops the envelope when overall strength reaches zero
// and fires the one-shot notification.
func (s *Systems) checkShieldsDown() {
	if !s.shields.Online || s.shields.Overall() > 0 {
		return
	}
	s.shields.Online = false
	if s.downCueArmed {
		s.downCueArmed = false
		s.notifier.Notify(audio.CueShieldsDown)
	}
}

// refreshAlert recomputes the alert condition and fires the red-alert cue
// on the transition into red.
func (s *Systems) refreshAlert() {
	next := s.deriveAlert()
	if next == AlertRed && s.alert != AlertRed {
		s.notifier.Notify(audio.CueAlertRed)
	}
	s.alert = next
}

func (s *Systems) deriveAlert() Alert {
	cfg := config.Cfg()
	overall := s.shields.Overall()
	switch {
	case float64(s.hull) < cfg.Alert.RedHull || float64(overall) < cfg.Alert.RedShields:
		return AlertRed
	case float64(s.hull) < cfg.Alert.YellowHull || float64(overall) < cfg.Alert.YellowShields:
		return AlertYellow
	default:
		return AlertGreen
	}
}

// cloneWith copies the registry with one unit replaced, preserving the
// copy-on-write discipline for damage-path mutations.
func cloneWith(prev map[string]Subsystem, u Subsystem) map[string]Subsystem {
	next := make(map[string]Subsystem, len(prev))
	for id, old := range prev {
		next[id] = old
	}
	next[u.ID] = u
	return next
}

// QuadrantFromBearing resolves which shield quadrant an incoming hit
// strikes. The incoming vector is the world-space travel direction of
// the fire; hits aligned with the ship's long axis strike front or
// rear, others the flanks.
func QuadrantFromBearing(rotation rl.Quaternion, incoming rl.Vector3) Quadrant {
	local := spatial.LocalDirection(rotation, incoming)
	if math.Abs(float64(local.Z)) >= math.Abs(float64(local.X)) {
		if local.Z < 0 {
			return QuadrantFront
		}
		return QuadrantRear
	}
	if local.X < 0 {
		return QuadrantStarboard
	}
	return QuadrantPort
}
