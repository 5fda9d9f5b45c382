// Package weapons models the phaser bank, torpedo tubes, and target
// selection. It owns heat, inventory, and lock state; hit resolution
// against the universe stays with the caller.
package weapons

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
)

// Kind distinguishes the two targetable populations.
type Kind string

const (
	KindBody    Kind = "body"
	KindHostile Kind = "hostile"
)

// Candidate is one targetable object as seen at cycle time. Position and
// Distance are a snapshot; callers refresh them against the live world.
type Candidate struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     Kind       `json:"kind"`
	Position rl.Vector3 `json:"position"`
	Distance float32    `json:"distance"`
}

// Phaser is the beam bank's serializable state.
type Phaser struct {
	Heat       float32 `json:"heat"`
	Firing     bool    `json:"firing"`
	Overheated bool    `json:"overheated"`
}

// State is the full weapons snapshot.
type State struct {
	Phaser        Phaser     `json:"phaser"`
	TorpedoesLeft int        `json:"torpedoes_left"`
	ReloadLeft    float32    `json:"reload_left"`
	Target        *Candidate `json:"target,omitempty"`
}

// Battery bundles the ship's armament. All mutation goes through its
// methods so heat, reload, and lock invariants hold.
type Battery struct {
	notifier audio.Notifier

	phaser        Phaser
	torpedoesLeft int
	reloadLeft    float32
	target        *Candidate
}

// NewBattery builds a cold, fully stocked battery. Pass nil for a
// notifier to discard cues.
func NewBattery(notifier audio.Notifier) *Battery {
	if notifier == nil {
		notifier = audio.Nop{}
	}
	return &Battery{
		notifier:      notifier,
		torpedoesLeft: config.Cfg().Weapons.Torpedo.Capacity,
	}
}

// Update advances heat flow and the reload timer by dt seconds.
func (b *Battery) Update(dt float32) {
	cfg := config.Cfg().Weapons
	if b.phaser.Firing {
		b.phaser.Heat += float32(cfg.Phaser.HeatRate) * dt
		if b.phaser.Heat >= float32(cfg.Phaser.MaxHeat) {
			b.phaser.Heat = float32(cfg.Phaser.MaxHeat)
			b.phaser.Firing = false
			b.phaser.Overheated = true
			b.notifier.Notify(audio.CuePhaserOverheat)
		}
	} else {
		b.phaser.Heat -= float32(cfg.Phaser.CoolRate) * dt
		if b.phaser.Heat <= 0 {
			b.phaser.Heat = 0
			b.phaser.Overheated = false
		}
	}

	if b.reloadLeft > 0 {
		b.reloadLeft -= dt
		if b.reloadLeft < 0 {
			b.reloadLeft = 0
		}
	}
}

// SetFiring opens or closes the beam. Opening is refused while the bank
// is overheated.
func (b *Battery) SetFiring(on bool) {
	if !on {
		b.phaser.Firing = false
		return
	}
	if b.phaser.Overheated || b.phaser.Firing {
		return
	}
	b.phaser.Firing = true
	b.notifier.Notify(audio.CuePhaserFire)
}

// Firing reports whether the beam is open.
func (b *Battery) Firing() bool { return b.phaser.Firing }

// Heat returns current bank heat.
func (b *Battery) Heat() float32 { return b.phaser.Heat }

// Overheated reports whether the bank is locked out until it cools fully.
func (b *Battery) Overheated() bool { return b.phaser.Overheated }

// BeamDamage returns the damage dealt by an open beam over dt seconds,
// or zero when the beam is closed.
func (b *Battery) BeamDamage(dt float32) float32 {
	if !b.phaser.Firing {
		return 0
	}
	return float32(config.Cfg().Weapons.Phaser.DPS) * dt
}

// BeamRange returns the phaser's effective range.
func (b *Battery) BeamRange() float32 {
	return float32(config.Cfg().Weapons.Phaser.Range)
}

// LaunchTorpedo fires one torpedo if the tubes are stocked and reloaded.
// Empty tubes and reload lockouts are silent no-ops.
func (b *Battery) LaunchTorpedo() bool {
	if b.torpedoesLeft <= 0 || b.reloadLeft > 0 {
		return false
	}
	b.torpedoesLeft--
	b.reloadLeft = float32(config.Cfg().Weapons.Torpedo.ReloadSec)
	b.notifier.Notify(audio.CueTorpedoAway)
	return true
}

// TorpedoesLeft returns remaining inventory.
func (b *Battery) TorpedoesLeft() int { return b.torpedoesLeft }

// TorpedoReady reports whether a launch would succeed right now.
func (b *Battery) TorpedoReady() bool {
	return b.torpedoesLeft > 0 && b.reloadLeft == 0
}

// ReloadLeft returns seconds until the tubes accept another launch.
func (b *Battery) ReloadLeft() float32 { return b.reloadLeft }

// CycleTarget advances the lock through all candidates within targeting
// range of from, ordered nearest first. With a current lock it selects
// the next entry, wrapping at the end; if the lock is gone or out of
// range it falls back to the nearest. No candidates in range clears the
// lock.
func (b *Battery) CycleTarget(from rl.Vector3, candidates []Candidate) (Candidate, bool) {
	maxRange := float32(config.Cfg().Weapons.TargetRange)
	inRange := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Distance = rl.Vector3Distance(from, c.Position)
		if c.Distance <= maxRange {
			inRange = append(inRange, c)
		}
	}
	if len(inRange) == 0 {
		b.target = nil
		return Candidate{}, false
	}
	sort.Slice(inRange, func(i, j int) bool {
		if inRange[i].Distance != inRange[j].Distance {
			return inRange[i].Distance < inRange[j].Distance
		}
		return inRange[i].ID < inRange[j].ID
	})

	next := 0
	if b.target != nil {
		for i, c := range inRange {
			if c.ID == b.target.ID {
				next = (i + 1) % len(inRange)
				break
			}
		}
	}
	sel := inRange[next]
	b.target = &sel
	b.notifier.Notify(audio.CueTargetLocked)
	return sel, true
}

// Target returns the current lock.
func (b *Battery) Target() (Candidate, bool) {
	if b.target == nil {
		return Candidate{}, false
	}
	return *b.target, true
}

// ClearTarget drops the current lock.
func (b *Battery) ClearTarget() { b.target = nil }

// DropTarget clears the lock if it references the given id, reporting
// whether it did. Used when a locked object leaves the world.
func (b *Battery) DropTarget(id string) bool {
	if b.target == nil || b.target.ID != id {
		return false
	}
	b.target = nil
	return true
}

// Snapshot captures weapons state for persistence.
func (b *Battery) Snapshot() State {
	st := State{
		Phaser:        b.phaser,
		TorpedoesLeft: b.torpedoesLeft,
		ReloadLeft:    b.reloadLeft,
	}
	if b.target != nil {
		t := *b.target
		st.Target = &t
	}
	return st
}

// Restore replaces weapons state with a previously captured snapshot.
func (b *Battery) Restore(st State) {
	b.phaser = st.Phaser
	b.torpedoesLeft = st.TorpedoesLeft
	b.reloadLeft = st.ReloadLeft
	b.target = nil
	if st.Target != nil {
		t := *st.Target
		b.target = &t
	}
}
