package universe

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Position is a world-space location.
type Position struct {
	Vec rl.Vector3
}

// Velocity is world-space motion in units per second.
type Velocity struct {
	Vec rl.Vector3
}

// Body marks a charted destination.
type Body struct {
	Index  int
	Name   string
	Class  string
	Radius float32
	Report string
}

// Hostile marks a raider and its combat state. Raiders fly a circular
// patrol around a private anchor point and shoot when the ship closes.
type Hostile struct {
	ID       uint32
	Hull     float32
	Cooldown float32 // seconds until the next shot is allowed
	Anchor   rl.Vector3
	Phase    float32 // patrol angle in radians
}

// Debris marks a drifting fragment.
type Debris struct{}

// Torpedo marks a live player projectile.
type Torpedo struct {
	Travelled float32
}
