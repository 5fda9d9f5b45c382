package camera

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/warp"
)

func init() {
	config.MustInit("")
}

const testDT = float32(1.0 / 60.0)

func vecClose(t *testing.T, got, want rl.Vector3, tol float32, label string) {
	t.Helper()
	d := rl.Vector3Length(rl.Vector3Subtract(got, want))
	if d > tol {
		t.Errorf("%s = %v, want %v (off by %v)", label, got, want, d)
	}
}

func TestDirectorDefaults(t *testing.T) {
	d := NewDirector()

	if d.Mode() != ModeChase {
		t.Errorf("mode = %s, want chase", d.Mode())
	}

	cam := d.Camera()
	if math.Abs(float64(cam.Fovy)-60.0) > 0.001 {
		t.Errorf("Fovy = %v, want 60", cam.Fovy)
	}
	if cam.Up != (rl.Vector3{Y: 1}) {
		t.Errorf("Up = %v, want +Y", cam.Up)
	}
}

func TestCycleMode(t *testing.T) {
	d := NewDirector()

	want := []Mode{ModeCinematic, ModeFreeLook, ModePhoto, ModeChase}
	for _, m := range want {
		d.CycleMode()
		if d.Mode() != m {
			t.Fatalf("CycleMode reached %s, want %s", d.Mode(), m)
		}
	}
}

func TestChaseHardLocksTranslation(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(100, 0, 0))

	d.Update(pose, nil, testDT)
	// Identity orientation: forward +Z, up +Y
	vecClose(t, d.Position(), rl.NewVector3(100, 12, -34), 0.01, "initial position")
	vecClose(t, d.LookTarget(), rl.NewVector3(100, 0, 60), 0.01, "initial look")

	// A big jump must carry the camera with zero lag
	pose.Position = rl.NewVector3(100, 0, 500)
	d.Update(pose, nil, testDT)
	vecClose(t, d.Position(), rl.NewVector3(100, 12, 466), 0.01, "post-jump position")
}

func TestChaseSmoothsLookTarget(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))

	d.Update(pose, nil, testDT)

	pose.Position = rl.NewVector3(0, 0, 500)
	d.Update(pose, nil, testDT)

	// Look target trails: strictly between the old and new aim points
	z := d.LookTarget().Z
	if z <= 60.01 || z >= 559.99 {
		t.Errorf("look target Z = %v, want strictly between 60 and 560", z)
	}

	// And it converges given time
	for i := 0; i < 600; i++ {
		d.Update(pose, nil, testDT)
	}
	vecClose(t, d.LookTarget(), rl.NewVector3(0, 0, 560), 0.5, "converged look")
}

func TestCinematicOrbitRing(t *testing.T) {
	d := NewDirector()
	d.SetMode(ModeCinematic)
	pose := spatial.NewPose(rl.NewVector3(50, -20, 300))

	var first, last rl.Vector3
	for i := 0; i < 120; i++ {
		d.Update(pose, nil, testDT)
		if i == 0 {
			first = d.Position()
		}
		last = d.Position()

		// Stay on the swaying ring around the ship
		dx := d.Position().X - pose.Position.X
		dz := d.Position().Z - pose.Position.Z
		ring := float32(math.Sqrt(float64(dx*dx + dz*dz)))
		if ring < 50.9 || ring > 59.1 {
			t.Fatalf("tick %d: ring radius = %v, want within 51..59", i, ring)
		}
		dy := d.Position().Y - pose.Position.Y
		if dy < 13.9 || dy > 18.1 {
			t.Fatalf("tick %d: height = %v, want within 14..18", i, dy)
		}
	}

	if rl.Vector3Length(rl.Vector3Subtract(first, last)) < 5 {
		t.Error("orbit did not advance over two seconds")
	}
}

func TestFreeLookFreezesSubject(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(10, 0, 0))
	d.Update(pose, nil, testDT)

	d.SetMode(ModeFreeLook)
	d.Update(pose, nil, testDT)

	frozen := d.Position()
	vecClose(t, d.LookTarget(), rl.NewVector3(10, 0, 0), 0.01, "look at subject")

	// The ship flies away; the framed subject must not drift
	pose.Position = rl.NewVector3(500, 80, -900)
	d.Update(pose, nil, testDT)
	vecClose(t, d.Position(), frozen, 0.01, "frozen position")
	vecClose(t, d.LookTarget(), rl.NewVector3(10, 0, 0), 0.01, "frozen look")
}

func TestFreeLookDragAndZoom(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))
	d.SetMode(ModeFreeLook)
	d.Update(pose, nil, testDT)

	// Default orbit sits straight behind on +Z at the orbit radius
	vecClose(t, d.Position(), rl.NewVector3(0, 0, 55), 0.01, "default orbit")

	before := d.Position()
	d.Drag(200, 0)
	d.Update(pose, nil, testDT)
	if rl.Vector3Length(rl.Vector3Subtract(d.Position(), before)) < 1 {
		t.Error("drag did not move the camera")
	}
	dist := rl.Vector3Length(d.Position())
	if math.Abs(float64(dist)-55) > 0.01 {
		t.Errorf("drag changed distance to %v, want 55", dist)
	}

	// Zoom clamps to the configured range
	d.Zoom(-100)
	d.Update(pose, nil, testDT)
	dist = rl.Vector3Length(d.Position())
	if math.Abs(float64(dist)-220) > 0.01 {
		t.Errorf("zoomed-out distance = %v, want max 220", dist)
	}

	d.Zoom(100)
	d.Update(pose, nil, testDT)
	dist = rl.Vector3Length(d.Position())
	if math.Abs(float64(dist)-14) > 0.01 {
		t.Errorf("zoomed-in distance = %v, want min 14", dist)
	}
}

func TestDragIgnoredOutsideFreeLook(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))

	d.Drag(500, 500)
	d.Zoom(50)
	d.Update(pose, nil, testDT)
	vecClose(t, d.Position(), rl.NewVector3(0, 12, -34), 0.01, "chase position")

	// Entering free-look starts from the untouched default orbit
	d.SetMode(ModeFreeLook)
	d.Update(pose, nil, testDT)
	vecClose(t, d.Position(), rl.NewVector3(0, 0, 55), 0.01, "free-look default")
}

func TestFreeLookRefreezesOnReentry(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(10, 0, 0))
	d.SetMode(ModeFreeLook)
	d.Update(pose, nil, testDT)

	d.SetMode(ModeChase)
	pose.Position = rl.NewVector3(-300, 40, 75)
	d.Update(pose, nil, testDT)

	d.SetMode(ModePhoto)
	d.Update(pose, nil, testDT)
	vecClose(t, d.LookTarget(), rl.NewVector3(-300, 40, 75), 0.01, "refrozen subject")
}

func TestWarpAcceleratingSnaps(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))
	session := &warp.Session{Phase: warp.PhaseAccelerating}

	d.Update(pose, session, testDT)
	vecClose(t, d.Position(), rl.NewVector3(0, 18, -74.8), 0.05, "pull-back offset")

	// Fast phase: no lag at all after a long jump
	pose.Position = rl.NewVector3(0, 0, 3000)
	d.Update(pose, session, testDT)
	vecClose(t, d.Position(), rl.NewVector3(0, 18, 2925.2), 0.05, "snapped after jump")
}

func TestWarpCruisingOrbitSnaps(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))
	session := &warp.Session{Phase: warp.PhaseCruising}

	for i := 0; i < 30; i++ {
		d.Update(pose, session, testDT)
		pose.Position.Z += 200 // cruise-speed motion
		d.Update(pose, session, testDT)

		dx := d.Position().X - pose.Position.X
		dz := d.Position().Z - pose.Position.Z
		ring := float32(math.Sqrt(float64(dx*dx + dz*dz)))
		// 55*1.6 = 88 nominal, ±8 wobble
		if ring < 79 || ring > 97 {
			t.Fatalf("tick %d: cruise ring = %v, want within 79..97", i, ring)
		}
	}
}

func TestWarpChargingLags(t *testing.T) {
	d := NewDirector()
	pose := spatial.NewPose(rl.NewVector3(0, 0, 0))
	session := &warp.Session{Phase: warp.PhaseCharging}

	d.Update(pose, session, testDT)

	pose.Position = rl.NewVector3(0, 0, 200)
	d.Update(pose, session, testDT)

	// Smoothed phase: after a teleport the camera is still far behind
	lag := float32(math.Abs(float64(d.Position().Z - pose.Position.Z)))
	if lag < 100 {
		t.Errorf("charging camera lag = %v, want > 100 after 200-unit jump", lag)
	}
}
