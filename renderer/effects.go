package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// blastLife is how long a detonation flash lasts, in seconds.
const blastLife = 0.6

// EffectsRenderer renders transient combat and sensor effects: phaser
// beams, torpedo tracers, detonation flashes, and the scan pulse.
type EffectsRenderer struct {
	blasts []blast
}

type blast struct {
	pos rl.Vector3
	age float32
	big bool
}

// NewEffectsRenderer creates a new effects renderer.
func NewEffectsRenderer() *EffectsRenderer {
	return &EffectsRenderer{}
}

// AddBlast queues a detonation flash. Kill blasts render larger.
func (r *EffectsRenderer) AddBlast(pos rl.Vector3, destroyed bool) {
	r.blasts = append(r.blasts, blast{pos: pos, big: destroyed})
}

// Draw renders all live effects and ages the flash pool.
func (r *EffectsRenderer) Draw(camPos rl.Vector3, frame Frame) {
	for _, t := range frame.Torpedoes {
		pos, scale := compress(camPos, t.Position)
		dir := rl.Vector3Normalize(t.Velocity)
		tail := rl.Vector3Subtract(pos, rl.Vector3Scale(dir, 9*scale))
		rl.DrawCylinderEx(pos, tail, 0.5*scale, 0.05*scale, 6, rl.Color{R: 255, G: 140, B: 50, A: 170})
		rl.DrawSphere(pos, 1.1*scale, rl.Color{R: 255, G: 230, B: 180, A: 255})
	}

	if frame.Beam != nil {
		from, fs := compress(camPos, frame.Beam.From)
		to, ts := compress(camPos, frame.Beam.To)
		rl.DrawCylinderEx(from, to, 0.34*fs, 0.2*ts, 6, rl.Color{R: 255, G: 120, B: 40, A: 200})
		rl.DrawLine3D(from, to, rl.Color{R: 255, G: 220, B: 160, A: 255})
		rl.DrawSphere(to, 1.5*ts, rl.Color{R: 255, G: 200, B: 120, A: 220})
	}

	if frame.Scan != nil {
		r.drawScanPulse(camPos, frame)
	}

	r.drawBlasts(camPos, frame.DT)
}

// drawScanPulse renders an expanding wire shell around the scan subject
// and a faint sensor line from the ship.
func (r *EffectsRenderer) drawScanPulse(camPos rl.Vector3, frame Frame) {
	scan := frame.Scan
	pos, scale := compress(camPos, scan.At)
	base := scan.Radius * scale
	if base < 6*scale {
		base = 6 * scale
	}

	pr := clamp01(scan.Progress)
	pulse := base * (1.15 + pr*0.9)
	alpha := uint8(40 + (1-pr)*150)
	rl.DrawSphereWires(pos, pulse, 8, 12, rl.Color{R: 90, G: 220, B: 200, A: alpha})

	shipPos, _ := compress(camPos, frame.Pose.Position)
	rl.DrawLine3D(shipPos, pos, rl.Color{R: 90, G: 220, B: 200, A: 90})
}

// drawBlasts ages the flash pool and renders survivors as expanding,
// fading shells.
func (r *EffectsRenderer) drawBlasts(camPos rl.Vector3, dt float32) {
	live := r.blasts[:0]
	for _, b := range r.blasts {
		b.age += dt
		if b.age < blastLife {
			live = append(live, b)
		}
	}
	r.blasts = live

	for _, b := range r.blasts {
		lifeRatio := 1 - b.age/blastLife
		maxSize := float32(7)
		if b.big {
			maxSize = 16
		}
		pos, scale := compress(camPos, b.pos)
		size := maxSize * (1 - lifeRatio*lifeRatio) * scale
		core := maxSize * 0.35 * lifeRatio * scale
		rl.DrawSphere(pos, core, rl.Color{R: 255, G: 240, B: 200, A: uint8(lifeRatio * 255)})
		rl.DrawSphereWires(pos, size, 6, 10, rl.Color{R: 255, G: 150, B: 60, A: uint8(lifeRatio * 200)})
	}
}
