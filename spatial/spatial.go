// Package spatial provides pose and orientation math for the simulation.
//
// All rotations are stored as quaternions; Euler angles are derived on
// demand and never written back. Ship convention is +Z forward, +Y up,
// +X starboard, angles in radians.
package spatial

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pose holds an entity's position and motion state.
type Pose struct {
	// Position in world units
	Position rl.Vector3

	// Rotation as a unit quaternion (single source of truth for orientation)
	Rotation rl.Quaternion

	// Velocity in world units/sec
	Velocity rl.Vector3

	// Angular holds local-axis rotation rates in radians/sec
	// (X = pitch, Y = yaw, Z = roll)
	Angular rl.Vector3
}

// NewPose creates a pose at the given position with identity orientation.
func NewPose(pos rl.Vector3) Pose {
	return Pose{
		Position: pos,
		Rotation: rl.QuaternionIdentity(),
	}
}

// Forward returns the ship-local +Z axis in world space.
func (p Pose) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, p.Rotation)
}

// Up returns the ship-local +Y axis in world space.
func (p Pose) Up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, p.Rotation)
}

// Right returns the ship-local +X axis in world space.
func (p Pose) Right() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, p.Rotation)
}

// Euler derives the current Euler angles from the rotation quaternion.
// Returns radians with X = pitch, Y = yaw, Z = roll.
func (p Pose) Euler() rl.Vector3 {
	return rl.QuaternionToEuler(p.Rotation)
}

// Speed returns the magnitude of the velocity vector.
func (p Pose) Speed() float32 {
	return rl.Vector3Length(p.Velocity)
}

// Rotate applies local-axis rotation deltas (radians) to the pose.
// Right-multiplication keeps the deltas in the ship frame.
func (p *Pose) Rotate(pitch, yaw, roll float32) {
	delta := rl.QuaternionFromEuler(pitch, yaw, roll)
	p.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(p.Rotation, delta))
}

// Toward returns the unit direction and distance from one point to another.
// Returns a zero direction when the points coincide.
func Toward(from, to rl.Vector3) (rl.Vector3, float32) {
	d := rl.Vector3Subtract(to, from)
	dist := rl.Vector3Length(d)
	if dist < 1e-6 {
		return rl.Vector3{}, 0
	}
	return rl.Vector3Scale(d, 1/dist), dist
}

// FacingRotation returns the rotation that points the ship forward axis
// along the given world direction. The direction need not be normalized.
func FacingRotation(dir rl.Vector3) rl.Quaternion {
	forward := rl.Vector3{Z: 1}
	n := rl.Vector3Normalize(dir)
	if rl.Vector3Length(n) < 1e-6 {
		return rl.QuaternionIdentity()
	}
	// Antiparallel directions have no unique shortest arc; turn about +Y.
	if rl.Vector3DotProduct(forward, n) < -0.99999 {
		return rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, math.Pi)
	}
	return rl.QuaternionFromVector3ToVector3(forward, n)
}

// LookAt returns an upright rotation facing from one point toward another.
// Roll is zeroed so the ship arrives level.
func LookAt(from, target rl.Vector3) rl.Quaternion {
	dir, dist := Toward(from, target)
	if dist == 0 {
		return rl.QuaternionIdentity()
	}
	return ZeroRoll(FacingRotation(dir))
}

// ZeroRoll rebuilds a rotation with its roll component removed,
// preserving pitch and yaw.
func ZeroRoll(q rl.Quaternion) rl.Quaternion {
	e := rl.QuaternionToEuler(q)
	return rl.QuaternionFromEuler(e.X, e.Y, 0)
}

// LocalDirection transforms a world-space direction into the frame of the
// given rotation.
func LocalDirection(q rl.Quaternion, world rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(world, rl.QuaternionInvert(q))
}
