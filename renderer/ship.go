package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/warp"
)

var (
	hullColor   = rl.Color{R: 168, G: 172, B: 180, A: 255}
	hullShade   = rl.Color{R: 120, G: 124, B: 132, A: 255}
	hullWire    = rl.Color{R: 82, G: 88, B: 98, A: 200}
	pylonColor  = rl.Color{R: 104, G: 108, B: 116, A: 255}
	bussardGlow = rl.Color{R: 220, G: 80, B: 60, A: 255}
	warpGlow    = rl.Color{R: 90, G: 190, B: 255, A: 255}
	impulseGlow = rl.Color{R: 255, G: 150, B: 60, A: 255}
)

// ShipRenderer renders the player ship at its pose. The hull is built
// from oriented primitives: a saucer, an engineering hull, and two
// nacelles on short pylons.
type ShipRenderer struct{}

// NewShipRenderer creates a new ship renderer.
func NewShipRenderer() *ShipRenderer {
	return &ShipRenderer{}
}

// Draw renders the ship with drive glows matching its current state.
func (r *ShipRenderer) Draw(pose spatial.Pose, impulsePct float32, session *warp.Session) {
	// Saucer section, a squat tapered disc ahead of midship
	rl.DrawCylinderEx(local(pose, 0, 0.3, 4), local(pose, 0, 1.3, 4), 5.2, 4.4, 20, hullColor)
	rl.DrawCylinderWiresEx(local(pose, 0, 0.3, 4), local(pose, 0, 1.3, 4), 5.2, 4.4, 20, hullWire)

	// Engineering hull below and behind
	rl.DrawCylinderEx(local(pose, 0, -1.2, -3.5), local(pose, 0, -1.2, 5), 1.6, 1.1, 12, hullShade)
	rl.DrawSphere(local(pose, 0, -1.2, 5.4), 1.05, hullShade)

	// Nacelles with forward bussard caps
	for _, side := range []float32{-3.4, 3.4} {
		rl.DrawCylinderEx(local(pose, side, 0.6, -6.5), local(pose, side, 0.6, 1.5), 0.72, 0.72, 10, hullColor)
		rl.DrawSphere(local(pose, side, 0.6, 1.8), 0.78, bussardGlow)
		rl.DrawCylinderEx(local(pose, side*0.25, -1, -2.2), local(pose, side, 0.5, -2.6), 0.2, 0.2, 6, pylonColor)
	}

	r.drawDrives(pose, impulsePct, session)
}

// drawDrives renders the impulse exhaust and, while the drive is in a
// powered warp phase, the nacelle trails.
func (r *ShipRenderer) drawDrives(pose spatial.Pose, impulsePct float32, session *warp.Session) {
	if impulsePct > 1 {
		size := 0.5 + impulsePct/100*1.1
		glow := impulseGlow
		glow.A = uint8(90 + impulsePct/100*165)
		rl.DrawSphere(local(pose, 0, -1.2, -4.1), size, glow)
	}

	if session == nil {
		return
	}
	switch session.Phase {
	case warp.PhaseCharging:
		// Nacelle grilles warm up while the coils charge
		rl.DrawSphere(local(pose, -3.4, 0.6, -6.8), 0.8, fade(warpGlow, 120))
		rl.DrawSphere(local(pose, 3.4, 0.6, -6.8), 0.8, fade(warpGlow, 120))
	case warp.PhaseAccelerating, warp.PhaseCruising:
		trail := float32(10) + pose.Speed()*0.002
		if trail > 46 {
			trail = 46
		}
		for _, side := range []float32{-3.4, 3.4} {
			rl.DrawSphere(local(pose, side, 0.6, -6.8), 0.95, warpGlow)
			rl.DrawCylinderEx(local(pose, side, 0.6, -6.8), local(pose, side, 0.6, -6.8-trail), 0.6, 0.05, 8, fade(warpGlow, 150))
		}
	case warp.PhaseDecelerating, warp.PhaseArriving:
		rl.DrawSphere(local(pose, -3.4, 0.6, -6.8), 0.85, fade(warpGlow, 190))
		rl.DrawSphere(local(pose, 3.4, 0.6, -6.8), 0.85, fade(warpGlow, 190))
	}
}

// local maps a point in the ship frame (+Z forward, +Y up, +X
// starboard) into world space.
func local(pose spatial.Pose, x, y, z float32) rl.Vector3 {
	offset := rl.Vector3RotateByQuaternion(rl.Vector3{X: x, Y: y, Z: z}, pose.Rotation)
	return rl.Vector3Add(pose.Position, offset)
}

func fade(c rl.Color, alpha uint8) rl.Color {
	c.A = alpha
	return c
}
