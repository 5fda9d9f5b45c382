package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/universe"
)

// RaiderRenderer renders hostile contacts and the drifting debris field.
type RaiderRenderer struct{}

// NewRaiderRenderer creates a new raider renderer.
func NewRaiderRenderer() *RaiderRenderer {
	return &RaiderRenderer{}
}

// Draw renders all raiders and debris fragments.
func (r *RaiderRenderer) Draw(camPos rl.Vector3, hostiles []universe.HostileView, debris []rl.Vector3) {
	maxHull := float32(config.Cfg().Universe.Hostiles.Hull)
	for _, h := range hostiles {
		r.drawRaider(camPos, h, maxHull)
	}
	for i, pos := range debris {
		r.drawFragment(camPos, pos, i)
	}
}

// drawRaider renders one raider as a dart pointed along its velocity,
// tinted darker as its hull wears down.
func (r *RaiderRenderer) drawRaider(camPos rl.Vector3, h universe.HostileView, maxHull float32) {
	pos, scale := compress(camPos, h.Position)

	dir := h.Velocity
	if rl.Vector3Length(dir) < 1e-3 {
		dir = rl.Vector3{Z: 1}
	}
	dir = rl.Vector3Normalize(dir)
	right := rl.Vector3CrossProduct(dir, rl.Vector3{Y: 1})
	if rl.Vector3Length(right) < 1e-3 {
		right = rl.Vector3{X: 1}
	}
	right = rl.Vector3Normalize(right)

	frac := float32(1)
	if maxHull > 0 {
		frac = clamp01(h.Hull / maxHull)
	}
	body := lerpColor(rl.Color{R: 74, G: 28, B: 24, A: 255}, rl.Color{R: 196, G: 58, B: 48, A: 255}, frac)

	nose := rl.Vector3Add(pos, rl.Vector3Scale(dir, 6*scale))
	tail := rl.Vector3Subtract(pos, rl.Vector3Scale(dir, 4*scale))
	rl.DrawCylinderEx(tail, nose, 2.6*scale, 0, 8, body)
	rl.DrawCylinderWiresEx(tail, nose, 2.6*scale, 0, 8, rl.Color{R: 40, G: 16, B: 14, A: 200})

	// Swept fins off the tail
	for _, side := range []float32{-1, 1} {
		tip := rl.Vector3Add(tail, rl.Vector3Scale(right, side*4.5*scale))
		tip = rl.Vector3Subtract(tip, rl.Vector3Scale(dir, 2*scale))
		rl.DrawCylinderEx(pos, tip, 0.5*scale, 0.1*scale, 6, body)
	}
}

// drawFragment renders one debris fragment with size and tint jittered
// by its index so the field looks uneven without per-frame randomness.
func (r *RaiderRenderer) drawFragment(camPos, worldPos rl.Vector3, index int) {
	pos, scale := compress(camPos, worldPos)
	j := jitter(index)
	size := (1.4 + j*2.8) * scale
	v := uint8(78 + j*52)
	tint := rl.Color{R: v, G: v - 8, B: v - 16, A: 255}
	rl.DrawCubeV(pos, rl.Vector3{X: size, Y: size * 0.8, Z: size * 1.2}, tint)
	rl.DrawCubeWiresV(pos, rl.Vector3{X: size, Y: size * 0.8, Z: size * 1.2}, rl.Color{R: 50, G: 47, B: 42, A: 180})
}

// jitter hashes an index into [0, 1).
func jitter(index int) float32 {
	h := uint32(index+1) * 2654435761
	return float32(h%1000) / 1000
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t),
	}
}
