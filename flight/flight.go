// Package flight implements the impulse flight controller.
//
// The controller is frame-driven: each tick it folds the pilot's intent
// into the ship pose. It never blocks and holds no state of its own;
// everything it needs lives in the pose and the intent.
package flight

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
)

// Intent holds one frame of pilot control input. Axes are analog in
// [-1, 1]; out-of-range values are clamped, never rejected.
type Intent struct {
	Enabled bool    // helm answering; while false every axis reads as zero
	Thrust  float32 // +forward / -reverse
	Strafe  float32 // +starboard / -port
	Lift    float32 // +up / -down
	Pitch   float32 // +nose up
	Yaw     float32 // +starboard turn
	Roll    float32 // +starboard bank
}

// Update integrates one tick of impulse flight into the pose.
//
// While warping is set the warp drive owns the pose: velocity is zeroed so
// impulse resumes from rest after arrival, and no integration happens here.
func Update(pose *spatial.Pose, intent Intent, warping bool, dt float32) {
	if warping {
		pose.Velocity = rl.Vector3{}
		pose.Angular = rl.Vector3{}
		return
	}

	// Dead helm still coasts and sheds speed, it just stops answering
	if !intent.Enabled {
		intent = Intent{Enabled: true}
	}

	cfg := config.Cfg()
	dead := float32(cfg.Flight.InputDeadzone)

	pitch := shapeAxis(intent.Pitch, dead)
	yaw := shapeAxis(intent.Yaw, dead)
	roll := shapeAxis(intent.Roll, dead)
	thrust := shapeAxis(intent.Thrust, dead)
	strafe := shapeAxis(intent.Strafe, dead)
	lift := shapeAxis(intent.Lift, dead)

	// Attitude first so thrust acts along the new heading. With +Z
	// forward and +Y up, nose-up and starboard-bank are negative
	// rotations about the X and Z axes.
	pose.Angular = rl.Vector3{
		X: -pitch * float32(cfg.Flight.PitchRate),
		Y: yaw * float32(cfg.Flight.YawRate),
		Z: -roll * float32(cfg.Flight.RollRate),
	}
	pose.Rotate(pose.Angular.X*dt, pose.Angular.Y*dt, pose.Angular.Z*dt)

	// Translation intent in ship-local space
	local := rl.Vector3{X: strafe, Y: lift, Z: thrust}
	if rl.Vector3Length(local) > 0 {
		world := rl.Vector3RotateByQuaternion(local, pose.Rotation)
		accel := rl.Vector3Scale(world, float32(cfg.Flight.Acceleration)*dt)
		pose.Velocity = rl.Vector3Add(pose.Velocity, accel)
	} else {
		// Coasting: exponential drag toward rest
		decay := float32(math.Exp(float64(-cfg.Flight.Drag) * float64(dt)))
		pose.Velocity = rl.Vector3Scale(pose.Velocity, decay)
	}

	// Speed cap
	maxSpeed := float32(cfg.Flight.MaxSpeed)
	if speed := rl.Vector3Length(pose.Velocity); speed > maxSpeed {
		pose.Velocity = rl.Vector3Scale(pose.Velocity, maxSpeed/speed)
	}

	pose.Position = rl.Vector3Add(pose.Position, rl.Vector3Scale(pose.Velocity, dt))
}

// ImpulsePercent returns the current speed as a percentage of the
// impulse cap, for the HUD readout.
func ImpulsePercent(pose spatial.Pose) float32 {
	maxSpeed := float32(config.Cfg().Flight.MaxSpeed)
	if maxSpeed <= 0 {
		return 0
	}
	return rl.Clamp(pose.Speed()/maxSpeed*100, 0, 100)
}

// shapeAxis clamps an axis to [-1, 1] and applies the deadzone.
func shapeAxis(v, dead float32) float32 {
	v = rl.Clamp(v, -1, 1)
	if v > -dead && v < dead {
		return 0
	}
	return v
}
