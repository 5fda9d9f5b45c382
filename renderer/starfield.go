package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/warp"
)

const (
	starCount = 1100
	// starShell keeps the field inside the drawable depth range. The
	// shell follows the camera, so stars never get passed.
	starShell = 520
	// maxStreakLen is the full streak length at max warp.
	maxStreakLen = 70
)

// StarfieldRenderer renders the background star shell. During the
// high-speed warp phases the stars smear into streaks along the
// session heading.
type StarfieldRenderer struct {
	stars []star
}

type star struct {
	dir  rl.Vector3
	tint rl.Color
}

// NewStarfieldRenderer creates a new starfield renderer with a layout
// fixed by the seed.
func NewStarfieldRenderer(seed int64) *StarfieldRenderer {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]star, starCount)
	for i := range stars {
		stars[i] = star{dir: randUnit(rng), tint: starTint(rng)}
	}
	return &StarfieldRenderer{stars: stars}
}

// Draw renders the field centered on the camera.
func (r *StarfieldRenderer) Draw(camPos rl.Vector3, session *warp.Session) {
	streak, heading := streakFactor(session)

	for _, s := range r.stars {
		p := rl.Vector3Add(camPos, rl.Vector3Scale(s.dir, starShell))
		if streak < 0.02 {
			rl.DrawPoint3D(p, s.tint)
			continue
		}
		// Brighter stars smear longer
		length := maxStreakLen * streak * (float32(s.tint.A) / 255)
		half := rl.Vector3Scale(heading, length*0.5)
		rl.DrawLine3D(rl.Vector3Subtract(p, half), rl.Vector3Add(p, half), s.tint)
	}
}

// streakFactor returns streak intensity in [0, 1] and the travel
// direction. Streaks ramp in while accelerating, hold through cruise,
// and fade back out while decelerating.
func streakFactor(session *warp.Session) (float32, rl.Vector3) {
	if session == nil {
		return 0, rl.Vector3{}
	}
	cfg := config.Cfg().Warp
	var f float32
	switch session.Phase {
	case warp.PhaseAccelerating:
		f = clamp01(session.ElapsedInPhase / float32(cfg.AccelSec))
	case warp.PhaseCruising:
		f = 1
	case warp.PhaseDecelerating:
		f = 1 - clamp01(session.ElapsedInPhase/float32(cfg.DecelSec))
	default:
		return 0, rl.Vector3{}
	}
	// Scale by cruise speed so low warp levels streak gently
	max := config.Cfg().Derived.MaxWarpSpeed
	if max > 0 {
		f *= float32(math.Sqrt(float64(session.Speed() / max)))
	}
	return f, session.Heading
}

func starTint(rng *rand.Rand) rl.Color {
	roll := rng.Float32()
	switch {
	case roll < 0.62:
		// Dim background layer
		v := uint8(120 + rng.Intn(50))
		return rl.Color{R: v, G: v, B: v + 10, A: 140}
	case roll < 0.92:
		v := uint8(180 + rng.Intn(50))
		return rl.Color{R: v, G: v, B: 255, A: 200}
	case roll < 0.97:
		// Warm giants
		return rl.Color{R: 255, G: 220, B: 170, A: 255}
	default:
		return rl.Color{R: 255, G: 255, B: 255, A: 255}
	}
}

func randUnit(rng *rand.Rand) rl.Vector3 {
	for {
		v := rl.Vector3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		}
		if l := rl.Vector3Length(v); l > 1e-3 && l <= 1 {
			return rl.Vector3Scale(v, 1/l)
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
