package spatial

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const eps = 1e-4

func almostEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func vecAlmostEq(a, b rl.Vector3) bool {
	return almostEq(a.X, b.X) && almostEq(a.Y, b.Y) && almostEq(a.Z, b.Z)
}

func TestPoseBasisIdentity(t *testing.T) {
	p := NewPose(rl.Vector3{})

	if !vecAlmostEq(p.Forward(), rl.Vector3{Z: 1}) {
		t.Errorf("identity forward mismatch: got %v", p.Forward())
	}
	if !vecAlmostEq(p.Up(), rl.Vector3{Y: 1}) {
		t.Errorf("identity up mismatch: got %v", p.Up())
	}
	if !vecAlmostEq(p.Right(), rl.Vector3{X: 1}) {
		t.Errorf("identity right mismatch: got %v", p.Right())
	}
}

func TestRotateYawTurnsForwardToStarboard(t *testing.T) {
	p := NewPose(rl.Vector3{})
	p.Rotate(0, math.Pi/2, 0)

	if !vecAlmostEq(p.Forward(), rl.Vector3{X: 1}) {
		t.Errorf("forward after +90deg yaw: got %v, want +X", p.Forward())
	}
	// Up should be unchanged by pure yaw
	if !vecAlmostEq(p.Up(), rl.Vector3{Y: 1}) {
		t.Errorf("up after yaw: got %v, want +Y", p.Up())
	}
}

func TestEulerRoundTrip(t *testing.T) {
	p := NewPose(rl.Vector3{})
	p.Rotation = rl.QuaternionFromEuler(0.3, 0.7, 0.2)

	e := p.Euler()
	if !almostEq(e.X, 0.3) || !almostEq(e.Y, 0.7) || !almostEq(e.Z, 0.2) {
		t.Errorf("euler round trip: got (%f, %f, %f), want (0.3, 0.7, 0.2)", e.X, e.Y, e.Z)
	}
}

func TestToward(t *testing.T) {
	dir, dist := Toward(rl.Vector3{X: 1}, rl.Vector3{X: 4})
	if !almostEq(dist, 3) {
		t.Errorf("distance: got %f, want 3", dist)
	}
	if !vecAlmostEq(dir, rl.Vector3{X: 1}) {
		t.Errorf("direction: got %v, want +X", dir)
	}

	// Coincident points yield a zero direction, not NaN
	dir, dist = Toward(rl.Vector3{X: 2, Y: 2, Z: 2}, rl.Vector3{X: 2, Y: 2, Z: 2})
	if dist != 0 {
		t.Errorf("coincident distance: got %f, want 0", dist)
	}
	if dir.X != 0 || dir.Y != 0 || dir.Z != 0 {
		t.Errorf("coincident direction: got %v, want zero", dir)
	}
}

func TestLookAtFacesTarget(t *testing.T) {
	q := LookAt(rl.Vector3{}, rl.Vector3{X: 10})
	fwd := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q)
	if !vecAlmostEq(fwd, rl.Vector3{X: 1}) {
		t.Errorf("look-at forward: got %v, want +X", fwd)
	}

	e := rl.QuaternionToEuler(q)
	if !almostEq(e.Z, 0) {
		t.Errorf("look-at roll: got %f, want 0", e.Z)
	}
}

func TestFacingRotationAntiparallel(t *testing.T) {
	q := FacingRotation(rl.Vector3{Z: -1})
	fwd := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q)
	if !vecAlmostEq(fwd, rl.Vector3{Z: -1}) {
		t.Errorf("antiparallel facing: got %v, want -Z", fwd)
	}
}

func TestZeroRollKeepsPitchYaw(t *testing.T) {
	q := rl.QuaternionFromEuler(0.4, -0.6, 0.9)
	zr := ZeroRoll(q)

	e := rl.QuaternionToEuler(zr)
	if !almostEq(e.X, 0.4) {
		t.Errorf("pitch after zero roll: got %f, want 0.4", e.X)
	}
	if !almostEq(e.Y, -0.6) {
		t.Errorf("yaw after zero roll: got %f, want -0.6", e.Y)
	}
	if !almostEq(e.Z, 0) {
		t.Errorf("roll after zero roll: got %f, want 0", e.Z)
	}
}

func TestLocalDirection(t *testing.T) {
	// Ship yawed 90 degrees starboard is facing world +X; a world +X
	// bearing should read as dead ahead in ship frame.
	q := rl.QuaternionFromEuler(0, math.Pi/2, 0)
	local := LocalDirection(q, rl.Vector3{X: 1})
	if !vecAlmostEq(local, rl.Vector3{Z: 1}) {
		t.Errorf("local bearing: got %v, want +Z", local)
	}
}
