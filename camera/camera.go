// Package camera selects and drives the active view rig.
//
// The Director is a read-only consumer of the simulation: each frame it
// looks at the ship pose, the warp session, and the selected mode, and
// exactly one rig produces the camera for that frame. Nothing here
// writes back into the simulation.
package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/warp"
)

// Mode identifies the pilot-selected camera behavior.
type Mode string

const (
	// ModeChase rides behind and above the ship, locked in translation.
	ModeChase Mode = "chase"
	// ModeCinematic orbits the ship slowly with a sinusoidal sway.
	ModeCinematic Mode = "cinematic"
	// ModeFreeLook orbits a frozen subject under mouse control.
	ModeFreeLook Mode = "free_look"
	// ModePhoto is free-look with the HUD hidden by the host.
	ModePhoto Mode = "photo"
)

// modeOrder is the cycle sequence for the camera toggle key.
var modeOrder = []Mode{ModeChase, ModeCinematic, ModeFreeLook, ModePhoto}

// Director owns the camera state across frames. Rigs that smooth or
// orbit keep their clocks here so switching rigs never pops.
type Director struct {
	mode Mode

	position   rl.Vector3
	lookTarget rl.Vector3

	orbitAngle float32
	bobClock   float32

	// Free-look orbit state around a subject frozen at mode entry
	freeYaw      float32
	freePitch    float32
	freeDistance float32
	subject      rl.Vector3
	frozen       bool

	initialized bool
}

// NewDirector creates a director in chase mode.
func NewDirector() *Director {
	cfg := config.Cfg()
	return &Director{
		mode:         ModeChase,
		freeDistance: float32(cfg.Camera.Orbit.Radius),
	}
}

// Mode returns the current camera mode.
func (d *Director) Mode() Mode {
	return d.mode
}

// SetMode switches the camera mode. Entering free-look or photo freezes
// the orbit subject on the next frame so it doesn't drift while the
// pilot inspects the ship.
func (d *Director) SetMode(m Mode) {
	if m == d.mode {
		return
	}
	d.mode = m
	if !userDriven(m) {
		d.frozen = false
	}
}

// CycleMode advances chase → cinematic → free-look → photo → chase.
func (d *Director) CycleMode() {
	for i, m := range modeOrder {
		if m == d.mode {
			d.SetMode(modeOrder[(i+1)%len(modeOrder)])
			return
		}
	}
	d.SetMode(ModeChase)
}

// Drag applies mouse travel in pixels to the free-look orbit. Ignored
// outside free-look and photo modes.
func (d *Director) Drag(dx, dy float32) {
	if !userDriven(d.mode) {
		return
	}
	cfg := config.Cfg().Camera.FreeLook
	d.freeYaw -= dx * float32(cfg.Sensitivity)
	d.freePitch = rl.Clamp(d.freePitch+dy*float32(cfg.Sensitivity),
		-float32(cfg.MaxPitch), float32(cfg.MaxPitch))
}

// Zoom applies wheel notches to the free-look orbit distance. Ignored
// outside free-look and photo modes.
func (d *Director) Zoom(notches float32) {
	if !userDriven(d.mode) {
		return
	}
	cfg := config.Cfg().Camera.FreeLook
	d.freeDistance = rl.Clamp(d.freeDistance-notches*float32(cfg.ZoomStep),
		float32(cfg.MinDistance), float32(cfg.MaxDistance))
}

// Update advances the active rig by dt seconds. The session is nil
// while the warp drive is idle.
func (d *Director) Update(pose spatial.Pose, session *warp.Session, dt float32) {
	switch {
	case userDriven(d.mode):
		d.updateFreeLook(pose)
	case session != nil:
		d.updateWarp(pose, session, dt)
	case d.mode == ModeCinematic:
		d.updateCinematic(pose, dt)
	default:
		d.updateChase(pose, dt, true)
	}
	d.initialized = true
}

// Camera returns the raylib camera for the current frame.
func (d *Director) Camera() rl.Camera3D {
	return rl.Camera3D{
		Position:   d.position,
		Target:     d.lookTarget,
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(config.Cfg().Camera.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// Position returns the camera position for the current frame.
func (d *Director) Position() rl.Vector3 {
	return d.position
}

// LookTarget returns the look-at point for the current frame.
func (d *Director) LookTarget() rl.Vector3 {
	return d.lookTarget
}

// updateChase rides behind and above the ship in its local frame.
// Translation is hard-locked to the ship so the hull never appears to
// drag or shrink under acceleration; only the look target is smoothed.
func (d *Director) updateChase(pose spatial.Pose, dt float32, hardPosition bool) {
	cfg := config.Cfg().Camera.Chase

	desired := chasePosition(pose, float32(cfg.BackDistance), float32(cfg.Height))
	look := rl.Vector3Add(pose.Position, rl.Vector3Scale(pose.Forward(), float32(cfg.LookAhead)))

	if hardPosition {
		d.position = desired
	} else {
		d.position = d.damp(d.position, desired, float32(cfg.LookSmoothing), dt)
	}
	d.lookTarget = d.damp(d.lookTarget, look, float32(cfg.LookSmoothing), dt)
}

// updateCinematic orbits the ship slowly, swaying radius and height on
// a sine so the shot never reads as a fixed turntable.
func (d *Director) updateCinematic(pose spatial.Pose, dt float32) {
	cfg := config.Cfg().Camera.Orbit

	d.orbitAngle += float32(cfg.Speed) * dt
	d.bobClock += dt
	sway := float32(math.Sin(2 * math.Pi * float64(d.bobClock) / cfg.BobPeriod))

	radius := float32(cfg.Radius) + float32(cfg.BobAmplitude)*sway
	height := float32(cfg.Height) + float32(cfg.BobAmplitude)*0.5*sway

	d.position = orbitPosition(pose.Position, d.orbitAngle, radius, height)
	d.lookTarget = d.damp(d.lookTarget, pose.Position, float32(config.Cfg().Camera.Chase.LookSmoothing), dt)
}

// updateWarp frames each warp phase differently. The two phases where
// the ship moves fastest snap the camera every frame; a smoothed camera
// visibly lags a ship covering hundreds of units per tick.
func (d *Director) updateWarp(pose spatial.Pose, session *warp.Session, dt float32) {
	chaseCfg := config.Cfg().Camera.Chase
	orbitCfg := config.Cfg().Camera.Orbit
	smoothing := float32(chaseCfg.LookSmoothing)

	back := float32(chaseCfg.BackDistance)
	height := float32(chaseCfg.Height)
	lookAhead := float32(chaseCfg.LookAhead)

	forwardLook := rl.Vector3Add(pose.Position, rl.Vector3Scale(pose.Forward(), lookAhead))

	switch session.Phase {
	case warp.PhaseCharging:
		// Mild rear-arc drift while the nose swings onto the bearing
		drift := float32(math.Sin(float64(session.ElapsedInPhase) * 0.6))
		pos := chasePosition(pose, back*1.15, height)
		pos = rl.Vector3Add(pos, rl.Vector3Scale(pose.Right(), drift*back*0.35))
		d.position = d.damp(d.position, pos, smoothing, dt)
		d.lookTarget = d.damp(d.lookTarget, forwardLook, smoothing, dt)

	case warp.PhaseAccelerating:
		// Hard pull-back, snapped
		d.position = chasePosition(pose, back*2.2, height*1.5)
		d.lookTarget = forwardLook

	case warp.PhaseCruising:
		// Wide wobbling orbit, snapped
		d.orbitAngle += float32(orbitCfg.Speed) * 0.7 * dt
		d.bobClock += dt
		sway := float32(math.Sin(2 * math.Pi * float64(d.bobClock) / orbitCfg.BobPeriod))
		radius := float32(orbitCfg.Radius)*1.6 + float32(orbitCfg.BobAmplitude)*2*sway
		d.position = orbitPosition(pose.Position, d.orbitAngle, radius, float32(orbitCfg.Height)+float32(orbitCfg.BobAmplitude)*sway)
		d.lookTarget = pose.Position

	case warp.PhaseDecelerating:
		d.position = d.damp(d.position, chasePosition(pose, back, height), smoothing, dt)
		d.lookTarget = d.damp(d.lookTarget, forwardLook, smoothing, dt)

	case warp.PhaseArriving:
		// Settle behind the ship, already looking at the destination
		d.position = d.damp(d.position, chasePosition(pose, back, height), smoothing, dt)
		d.lookTarget = d.damp(d.lookTarget, session.Target.Position, smoothing, dt)

	default:
		d.updateChase(pose, dt, true)
	}
}

// updateFreeLook orbits the frozen subject under Drag and Zoom control.
func (d *Director) updateFreeLook(pose spatial.Pose) {
	if !d.frozen {
		d.subject = pose.Position
		d.frozen = true
	}

	sy := float32(math.Sin(float64(d.freeYaw)))
	cy := float32(math.Cos(float64(d.freeYaw)))
	sp := float32(math.Sin(float64(d.freePitch)))
	cp := float32(math.Cos(float64(d.freePitch)))

	offset := rl.Vector3{
		X: cp * sy * d.freeDistance,
		Y: sp * d.freeDistance,
		Z: cp * cy * d.freeDistance,
	}
	d.position = rl.Vector3Add(d.subject, offset)
	d.lookTarget = d.subject
}

// damp moves current toward target with an exponential, frame-rate
// independent blend. The first frame snaps so the rig never sweeps in
// from the world origin.
func (d *Director) damp(current, target rl.Vector3, rate, dt float32) rl.Vector3 {
	if !d.initialized {
		return target
	}
	blend := 1 - float32(math.Exp(float64(-rate)*float64(dt)))
	return rl.Vector3Lerp(current, target, blend)
}

// chasePosition is the behind-and-above offset in the ship's frame.
func chasePosition(pose spatial.Pose, back, height float32) rl.Vector3 {
	pos := rl.Vector3Subtract(pose.Position, rl.Vector3Scale(pose.Forward(), back))
	return rl.Vector3Add(pos, rl.Vector3Scale(pose.Up(), height))
}

// orbitPosition places the camera on a horizontal ring around a center.
func orbitPosition(center rl.Vector3, angle, radius, height float32) rl.Vector3 {
	return rl.Vector3Add(center, rl.Vector3{
		X: float32(math.Cos(float64(angle))) * radius,
		Y: height,
		Z: float32(math.Sin(float64(angle))) * radius,
	})
}

// userDriven reports whether the mode orbits under pilot input.
func userDriven(m Mode) bool {
	return m == ModeFreeLook || m == ModePhoto
}
