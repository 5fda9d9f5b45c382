// Package warp implements the warp drive state machine.
//
// The drive sequences idle → charging → accelerating → cruising →
// decelerating → arriving → idle. The ship only translates during
// cruising; charging, accelerating and decelerating are fixed-duration
// windows, and arriving tears the session down. While any phase other
// than idle is active the drive owns the ship pose outright.
package warp

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
)

// Phase identifies one discrete state of the warp sequence.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseCharging     Phase = "charging"
	PhaseAccelerating Phase = "accelerating"
	PhaseCruising     Phase = "cruising"
	PhaseDecelerating Phase = "decelerating"
	PhaseArriving     Phase = "arriving"
)

// Target describes a warp destination from the navigation catalog.
type Target struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position rl.Vector3 `json:"position"`
	Radius   float32    `json:"radius"`
}

// Session holds the state of one warp run. Created on engagement and
// discarded when the drive returns to idle.
type Session struct {
	Phase  Phase  `json:"phase"`
	Level  int    `json:"level"`
	Target Target `json:"target"`

	Origin  rl.Vector3 `json:"origin"`
	Arrival rl.Vector3 `json:"arrival"` // standoff point short of the body
	Heading rl.Vector3 `json:"heading"` // unit origin->arrival direction

	TotalDistance     float32 `json:"total_distance"`
	DistanceRemaining float32 `json:"distance_remaining"`
	ElapsedInPhase    float32 `json:"elapsed_in_phase"`

	// Rotation endpoints for the charging alignment slerp
	ChargeStart rl.Quaternion `json:"charge_start"`
	Facing      rl.Quaternion `json:"facing"`
}

// Speed returns the cruise speed for the session's warp level.
func (s *Session) Speed() float32 {
	d := config.Cfg().Derived
	lvl := s.Level
	if lvl < 1 {
		lvl = 1
	}
	if lvl >= len(d.WarpSpeeds) {
		lvl = len(d.WarpSpeeds) - 1
	}
	return d.WarpSpeeds[lvl]
}

// Progress returns completion in [0, 1], derived from distance remaining.
func (s *Session) Progress() float32 {
	if s.TotalDistance <= 0 {
		return 1
	}
	return 1 - s.DistanceRemaining/s.TotalDistance
}

// ETA returns seconds to the arrival point at the current warp speed.
// Infinite when the speed is zero.
func (s *Session) ETA() float32 {
	speed := s.Speed()
	if speed <= 0 {
		return float32(math.Inf(1))
	}
	return s.DistanceRemaining / speed
}

// Drive owns the warp sequence and, while engaged, the ship pose.
type Drive struct {
	notifier audio.Notifier
	session  *Session
}

// NewDrive creates an idle warp drive reporting through the notifier.
func NewDrive(notifier audio.Notifier) *Drive {
	if notifier == nil {
		notifier = audio.Nop{}
	}
	return &Drive{notifier: notifier}
}

// Phase returns the current phase, PhaseIdle when disengaged.
func (d *Drive) Phase() Phase {
	if d.session == nil {
		return PhaseIdle
	}
	return d.session.Phase
}

// Warping reports whether a session is active.
func (d *Drive) Warping() bool {
	return d.session != nil
}

// Session returns the active session, nil when idle. Callers treat the
// returned session as read-only.
func (d *Drive) Session() *Session {
	return d.session
}

// Engage starts a warp run toward the target at the given level.
// Returns false with no state change if the drive is already engaged.
func (d *Drive) Engage(pose *spatial.Pose, target Target, level int) bool {
	if d.session != nil {
		return false
	}

	cfg := config.Cfg()
	dir, _ := spatial.Toward(pose.Position, target.Position)

	// Stop short of the body surface, not at its center
	standoff := target.Radius + float32(cfg.Warp.Clearance)
	arrival := rl.Vector3Subtract(target.Position, rl.Vector3Scale(dir, standoff))

	heading, total := spatial.Toward(pose.Position, arrival)

	d.session = &Session{
		Phase:             PhaseCharging,
		Level:             clampLevel(level),
		Target:            target,
		Origin:            pose.Position,
		Arrival:           arrival,
		Heading:           heading,
		TotalDistance:     total,
		DistanceRemaining: total,
		ChargeStart:       pose.Rotation,
		Facing:            spatial.LookAt(pose.Position, target.Position),
	}
	d.notifier.Notify(audio.CueWarpCharging)
	return true
}

// Disengage is the emergency stop: any non-idle, non-arriving phase drops
// straight to decelerating. Calling it again while already decelerating,
// arriving, or idle is a no-op.
func (d *Drive) Disengage() {
	s := d.session
	if s == nil || s.Phase == PhaseDecelerating || s.Phase == PhaseArriving {
		return
	}
	d.notifier.Notify(audio.CueWarpAborted)
	d.enter(PhaseDecelerating)
}

// Shutdown is the power-loss path: the session is discarded on the spot,
// with no deceleration glide and no arrival snap. The pose stays wherever
// the cut caught it. No-op when idle.
func (d *Drive) Shutdown() {
	if d.session == nil {
		return
	}
	d.notifier.Notify(audio.CueWarpAborted)
	d.session = nil
}

// SkipToDestination jumps straight to the arrival point. Only valid while
// cruising; any other state is a silent no-op.
func (d *Drive) SkipToDestination(pose *spatial.Pose) {
	s := d.session
	if s == nil || s.Phase != PhaseCruising {
		return
	}
	pose.Position = s.Arrival
	s.DistanceRemaining = 0
	d.enter(PhaseArriving)
}

// SetLevel changes the warp level, clamped to the configured range.
// While cruising this takes effect immediately: speed and ETA change,
// position does not jump.
func (d *Drive) SetLevel(level int) {
	if d.session == nil {
		return
	}
	d.session.Level = clampLevel(level)
}

// Update advances the sequence by dt seconds, writing the pose for the
// phase that owns it. No-op while idle.
func (d *Drive) Update(pose *spatial.Pose, dt float32) {
	s := d.session
	if s == nil {
		return
	}

	cfg := config.Cfg()
	s.ElapsedInPhase += dt

	switch s.Phase {
	case PhaseCharging:
		// Swing the nose onto the destination bearing over the full window
		duration := float32(cfg.Warp.ChargeSec)
		t := s.ElapsedInPhase / duration
		if t > 1 {
			t = 1
		}
		pose.Rotation = rl.QuaternionNormalize(rl.QuaternionSlerp(s.ChargeStart, s.Facing, t))
		if s.ElapsedInPhase >= duration {
			pose.Rotation = s.Facing
			d.enter(PhaseAccelerating)
		}

	case PhaseAccelerating:
		pose.Rotation = s.Facing
		if s.ElapsedInPhase >= float32(cfg.Warp.AccelSec) {
			d.enter(PhaseCruising)
		}

	case PhaseCruising:
		pose.Rotation = s.Facing
		step := s.Speed() * dt
		if step >= s.DistanceRemaining {
			// Land exactly on the arrival point, never past it
			s.DistanceRemaining = 0
			pose.Position = s.Arrival
			d.enter(PhaseDecelerating)
			break
		}
		s.DistanceRemaining -= step
		travelled := s.TotalDistance - s.DistanceRemaining
		pose.Position = rl.Vector3Add(s.Origin, rl.Vector3Scale(s.Heading, travelled))

	case PhaseDecelerating:
		pose.Rotation = s.Facing
		if s.ElapsedInPhase >= float32(cfg.Warp.DecelSec) {
			d.enter(PhaseArriving)
		}

	case PhaseArriving:
		if s.ElapsedInPhase >= float32(cfg.Warp.ArriveSec) {
			// Hand the pose back level and looking at the body itself
			pose.Rotation = spatial.LookAt(pose.Position, s.Target.Position)
			d.session = nil
			d.notifier.Notify(audio.CueWarpComplete)
		}
	}
}

// Restore replaces the drive state from a saved session. Passing nil
// returns the drive to idle.
func (d *Drive) Restore(s *Session) {
	d.session = s
}

// enter transitions to the given phase and fires its cue.
func (d *Drive) enter(p Phase) {
	d.session.Phase = p
	d.session.ElapsedInPhase = 0
	switch p {
	case PhaseAccelerating:
		d.notifier.Notify(audio.CueWarpAccelerating)
	case PhaseCruising:
		d.notifier.Notify(audio.CueWarpCruising)
	case PhaseDecelerating:
		d.notifier.Notify(audio.CueWarpDecelerating)
	case PhaseArriving:
		d.notifier.Notify(audio.CueWarpArriving)
	}
}

func clampLevel(level int) int {
	maxLevel := config.Cfg().Warp.MaxLevel
	if level < 1 {
		return 1
	}
	if level > maxLevel {
		return maxLevel
	}
	return level
}
