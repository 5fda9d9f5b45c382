// Package renderer draws the sector and the ship with raylib primitives.
// All geometry lives in world space; anything farther from the camera
// than raylib's default far clip plane is reprojected onto a closer
// shell at the same angular size so distant bodies stay visible.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/universe"
	"github.com/lcrow/starhelm/warp"
)

const (
	// shellStart is the camera distance where depth compression begins.
	shellStart = 600
	// shellLimit is the asymptotic draw distance for infinitely far
	// geometry. Must stay inside raylib's 1000 unit far clip.
	shellLimit = 950
)

// BeamShot describes a live phaser beam for one frame.
type BeamShot struct {
	From rl.Vector3
	To   rl.Vector3
}

// ScanPulse describes an active sensor sweep around its subject.
type ScanPulse struct {
	At       rl.Vector3
	Radius   float32
	Progress float32 // 0..1
}

// Frame carries everything the scene needs to draw one tick.
type Frame struct {
	Pose       spatial.Pose
	ImpulsePct float32
	Warp       *warp.Session
	Bodies     []universe.Contact
	Hostiles   []universe.HostileView
	Torpedoes  []universe.TorpedoView
	Debris     []rl.Vector3
	Beam       *BeamShot
	Scan       *ScanPulse
	Time       float32
	DT         float32
}

// SceneRenderer draws the full 3D scene.
type SceneRenderer struct {
	starfield *StarfieldRenderer
	bodies    *BodyRenderer
	ship      *ShipRenderer
	raiders   *RaiderRenderer
	effects   *EffectsRenderer
}

// NewSceneRenderer creates a new scene renderer. The seed fixes the
// starfield layout.
func NewSceneRenderer(seed int64) *SceneRenderer {
	return &SceneRenderer{
		starfield: NewStarfieldRenderer(seed),
		bodies:    NewBodyRenderer(),
		ship:      NewShipRenderer(),
		raiders:   NewRaiderRenderer(),
		effects:   NewEffectsRenderer(),
	}
}

// AddBlast queues a detonation flash at a world position.
func (r *SceneRenderer) AddBlast(pos rl.Vector3, destroyed bool) {
	r.effects.AddBlast(pos, destroyed)
}

// Draw renders one frame inside a 3D mode block.
func (r *SceneRenderer) Draw(cam rl.Camera3D, frame Frame) {
	rl.BeginMode3D(cam)

	r.starfield.Draw(cam.Position, frame.Warp)
	r.bodies.Draw(cam.Position, frame.Bodies, frame.Time)
	r.raiders.Draw(cam.Position, frame.Hostiles, frame.Debris)
	r.ship.Draw(frame.Pose, frame.ImpulsePct, frame.Warp)
	r.effects.Draw(cam.Position, frame)

	rl.EndMode3D()
}

// Unload frees resources.
func (r *SceneRenderer) Unload() {}

// compress maps a world position into the drawable depth range. Points
// within shellStart of the camera pass through; beyond that, distance
// is squeezed toward shellLimit and the returned scale shrinks sizes by
// the same ratio, preserving angular size.
func compress(camPos, worldPos rl.Vector3) (rl.Vector3, float32) {
	delta := rl.Vector3Subtract(worldPos, camPos)
	dist := rl.Vector3Length(delta)
	if dist <= shellStart {
		return worldPos, 1
	}
	drawDist := shellStart + (shellLimit-shellStart)*(1-shellStart/dist)
	scale := drawDist / dist
	return rl.Vector3Add(camPos, rl.Vector3Scale(delta, scale)), scale
}
