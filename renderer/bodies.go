package renderer

import (
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/universe"
)

// BodyRenderer renders the charted destination bodies.
type BodyRenderer struct{}

// NewBodyRenderer creates a new body renderer.
func NewBodyRenderer() *BodyRenderer {
	return &BodyRenderer{}
}

// Draw renders all bodies with class-based tints.
func (r *BodyRenderer) Draw(camPos rl.Vector3, bodies []universe.Contact, time float32) {
	for _, b := range bodies {
		pos, scale := compress(camPos, b.Position)
		radius := b.Radius * scale
		class := strings.ToLower(b.Class)

		if strings.Contains(class, "nebula") {
			// Nebulae get a translucent double shell instead of a solid fill
			rl.DrawSphere(pos, radius, rl.Color{R: 130, G: 80, B: 180, A: 36})
			rl.DrawSphereWires(pos, radius, 10, 14, rl.Color{R: 180, G: 120, B: 230, A: 90})
			rl.DrawSphereWires(pos, radius*0.68, 8, 12, rl.Color{R: 150, G: 100, B: 210, A: 60})
			continue
		}

		fill, wire := bodyPalette(class)
		rl.DrawSphere(pos, radius, fill)
		rl.DrawSphereWires(pos, radius*1.004, 12, 16, wire)

		// Artificial structures carry a blinking beacon
		if strings.Contains(class, "station") || strings.Contains(class, "outpost") || strings.Contains(class, "relay") {
			pulse := float32(0.5 + 0.5*math.Sin(float64(time)*3))
			beacon := rl.Vector3Add(pos, rl.Vector3{Y: radius * 1.15})
			rl.DrawSphere(beacon, radius*0.05+0.6*scale, rl.Color{R: 255, G: 60, B: 60, A: uint8(90 + pulse*160)})
		}
	}
}

func bodyPalette(class string) (fill, wire rl.Color) {
	switch {
	case strings.Contains(class, "ocean"), strings.Contains(class, "water"):
		return rl.Color{R: 18, G: 60, B: 120, A: 255}, rl.Color{R: 90, G: 170, B: 230, A: 160}
	case strings.Contains(class, "station"), strings.Contains(class, "outpost"), strings.Contains(class, "yard"):
		return rl.Color{R: 70, G: 78, B: 88, A: 255}, rl.Color{R: 140, G: 200, B: 220, A: 180}
	case strings.Contains(class, "mining"), strings.Contains(class, "asteroid"), strings.Contains(class, "claim"):
		return rl.Color{R: 86, G: 66, B: 48, A: 255}, rl.Color{R: 150, G: 120, B: 90, A: 150}
	case strings.Contains(class, "relay"), strings.Contains(class, "beacon"):
		return rl.Color{R: 60, G: 50, B: 28, A: 255}, rl.Color{R: 230, G: 180, B: 60, A: 200}
	default:
		return rl.Color{R: 60, G: 62, B: 68, A: 255}, rl.Color{R: 120, G: 125, B: 135, A: 150}
	}
}
