package flight

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
)

func init() {
	config.MustInit("")
}

const dt = float32(1.0 / 60.0)

func TestThrustAcceleratesForward(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})

	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Enabled: true, Thrust: 1}, false, dt)
	}

	if pose.Velocity.Z <= 0 {
		t.Errorf("expected forward velocity, got %v", pose.Velocity)
	}
	if pose.Position.Z <= 0 {
		t.Errorf("expected forward displacement, got %v", pose.Position)
	}
	if math.Abs(float64(pose.Velocity.X)) > 1e-4 || math.Abs(float64(pose.Velocity.Y)) > 1e-4 {
		t.Errorf("expected motion along forward axis only, got %v", pose.Velocity)
	}
}

func TestSpeedClampedToMax(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})
	maxSpeed := float32(config.Cfg().Flight.MaxSpeed)

	// Hold full thrust well past the time needed to saturate
	for i := 0; i < 60*30; i++ {
		Update(&pose, Intent{Enabled: true, Thrust: 1}, false, dt)
	}

	if speed := pose.Speed(); speed > maxSpeed+1e-3 {
		t.Errorf("speed exceeds cap: got %f, want <= %f", speed, maxSpeed)
	}
}

func TestAxisValuesClamped(t *testing.T) {
	a := spatial.NewPose(rl.Vector3{})
	b := spatial.NewPose(rl.Vector3{})

	for i := 0; i < 60; i++ {
		Update(&a, Intent{Enabled: true, Thrust: 1}, false, dt)
		Update(&b, Intent{Enabled: true, Thrust: 5}, false, dt)
	}

	if math.Abs(float64(a.Velocity.Z-b.Velocity.Z)) > 1e-4 {
		t.Errorf("overdriven axis should clamp to 1: got %f vs %f", b.Velocity.Z, a.Velocity.Z)
	}
}

func TestDragDecaysSpeedWhenCoasting(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})
	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Enabled: true, Thrust: 1}, false, dt)
	}
	before := pose.Speed()
	if before == 0 {
		t.Fatal("setup failed: no speed built up")
	}

	for i := 0; i < 60; i++ {
		Update(&pose, Intent{}, false, dt)
	}

	if after := pose.Speed(); after >= before {
		t.Errorf("coasting should shed speed: got %f, want < %f", after, before)
	}
}

func TestDeadzoneIgnoresStickNoise(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})
	dead := float32(config.Cfg().Flight.InputDeadzone)

	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Enabled: true, Thrust: dead / 2}, false, dt)
	}

	if speed := pose.Speed(); speed != 0 {
		t.Errorf("sub-deadzone input should not move the ship: got speed %f", speed)
	}
}

func TestDisabledHelmIgnoresInput(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})

	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Thrust: 1, Yaw: 1}, false, dt)
	}

	if speed := pose.Speed(); speed != 0 {
		t.Errorf("disabled helm should not build speed: got %f", speed)
	}
	if fwd := pose.Forward(); math.Abs(float64(fwd.X)) > 1e-6 {
		t.Errorf("disabled helm should not turn the ship, forward is %v", fwd)
	}

	// A coasting ship still sheds speed with the helm dead
	pose.Velocity = rl.Vector3{Z: 10}
	Update(&pose, Intent{}, false, dt)
	if pose.Velocity.Z >= 10 {
		t.Errorf("drag should still apply: got %f", pose.Velocity.Z)
	}
}

func TestYawChangesHeading(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})

	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Enabled: true, Yaw: 1}, false, dt)
	}

	fwd := pose.Forward()
	if math.Abs(float64(fwd.X)) < 1e-3 {
		t.Errorf("yaw input should swing the nose off +Z, forward is %v", fwd)
	}
	if pose.Angular.Y == 0 {
		t.Error("angular rate should reflect yaw input")
	}
}

func TestWarpFreezeZeroesVelocity(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})
	for i := 0; i < 60; i++ {
		Update(&pose, Intent{Enabled: true, Thrust: 1}, false, dt)
	}
	posBefore := pose.Position

	// Full thrust while warping must neither move the ship nor keep speed
	Update(&pose, Intent{Enabled: true, Thrust: 1}, true, dt)

	if pose.Speed() != 0 {
		t.Errorf("velocity should zero during warp, got %f", pose.Speed())
	}
	if pose.Position != posBefore {
		t.Errorf("impulse must not move the ship during warp: got %v, want %v", pose.Position, posBefore)
	}
}

func TestImpulsePercent(t *testing.T) {
	pose := spatial.NewPose(rl.Vector3{})
	if pct := ImpulsePercent(pose); pct != 0 {
		t.Errorf("at rest: got %f, want 0", pct)
	}

	pose.Velocity = rl.Vector3{Z: float32(config.Cfg().Flight.MaxSpeed)}
	if pct := ImpulsePercent(pose); math.Abs(float64(pct-100)) > 1e-3 {
		t.Errorf("at cap: got %f, want 100", pct)
	}
}
