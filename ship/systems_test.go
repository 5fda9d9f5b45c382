package ship

import (
	"math"
	"math/rand"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
)

func init() {
	config.MustInit("")
}

func newTestSystems(seed int64) (*Systems, *audio.Recorder) {
	rec := &audio.Recorder{}
	return NewSystems(rand.New(rand.NewSource(seed)), rec), rec
}

func TestNewSystemsStartsAtFullReadiness(t *testing.T) {
	s, _ := newTestSystems(1)

	sh := s.Shields()
	if sh.Front != 100 || sh.Rear != 100 || sh.Port != 100 || sh.Starboard != 100 {
		t.Errorf("quadrants: got %+v, want all 100", sh)
	}
	if !sh.Online {
		t.Error("shields should start online")
	}
	if got := sh.Overall(); got != 100 {
		t.Errorf("overall: got %v, want 100", got)
	}
	if s.Hull() != 100 {
		t.Errorf("hull: got %v, want 100", s.Hull())
	}
	if s.Alert() != AlertGreen {
		t.Errorf("alert: got %v, want green", s.Alert())
	}
	if len(s.Subsystems()) != 6 {
		t.Fatalf("units: got %d, want 6", len(s.Subsystems()))
	}
	for id, u := range s.Subsystems() {
		if u.Status != StatusOnline {
			t.Errorf("unit %s: got status %v, want online", id, u.Status)
		}
		if u.Power != u.MaxPower {
			t.Errorf("unit %s: got power %v, want %v", id, u.Power, u.MaxPower)
		}
	}
}

func TestOmniDamageSplitsEvenlyWithoutBleed(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageShields(20)

	sh := s.Shields()
	for q, v := range map[Quadrant]float32{
		QuadrantFront: sh.Front, QuadrantRear: sh.Rear,
		QuadrantPort: sh.Port, QuadrantStarboard: sh.Starboard,
	} {
		if v != 95 {
			t.Errorf("quadrant %s: got %v, want 95", q, v)
		}
	}
	if got := sh.Overall(); got != 95 {
		t.Errorf("overall: got %v, want 95", got)
	}
	if s.Hull() != 100 {
		t.Errorf("hull should be untouched by an omni hit: got %v", s.Hull())
	}
}

func TestDirectionalDamageBleedsOnlyOnDepletion(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageQuadrant(QuadrantFront, 80)
	if got := s.Shields().Front; got != 20 {
		t.Fatalf("front after first hit: got %v, want 20", got)
	}
	if s.Hull() != 100 {
		t.Errorf("hull should be untouched while the quadrant holds: got %v", s.Hull())
	}

	s.DamageQuadrant(QuadrantFront, 30)
	sh := s.Shields()
	if sh.Front != 0 {
		t.Errorf("front after depleting hit: got %v, want 0", sh.Front)
	}
	if s.Hull() != 85 {
		t.Errorf("hull after bleed-through: got %v, want 85", s.Hull())
	}
	if sh.Rear != 100 || sh.Port != 100 || sh.Starboard != 100 {
		t.Errorf("other quadrants must be untouched: got %+v", sh)
	}
	if got, want := sh.Overall(), float32(75); got != want {
		t.Errorf("overall: got %v, want %v", got, want)
	}
}

func TestShieldsDownCueFiresExactlyOnce(t *testing.T) {
	s, rec := newTestSystems(1)

	s.DamageShields(400)
	sh := s.Shields()
	if sh.Overall() != 0 || sh.Online {
		t.Fatalf("shields should be fully down: %+v", sh)
	}
	if got := rec.Count(audio.CueShieldsDown); got != 1 {
		t.Errorf("shields_down after collapse: got %d cues, want 1", got)
	}

	s.DamageShields(50)
	s.DamageQuadrant(QuadrantFront, 10)
	if got := rec.Count(audio.CueShieldsDown); got != 1 {
		t.Errorf("shields_down must not re-fire while down: got %d cues", got)
	}

	s.RestoreShields(40)
	if !s.Shields().Online {
		t.Fatal("shields should come back online after restore")
	}
	s.DamageShields(200)
	if got := rec.Count(audio.CueShieldsDown); got != 2 {
		t.Errorf("shields_down after second collapse: got %d cues, want 2", got)
	}
}

func TestShieldRegenWaitsForQuietWindow(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageQuadrant(QuadrantFront, 30)
	s.Update(4)
	if got := s.Shields().Front; got != 70 {
		t.Errorf("front within regen delay: got %v, want 70", got)
	}

	s.Update(2)
	if got := s.Shields().Front; got != 78 {
		t.Errorf("front after quiet window: got %v, want 78", got)
	}

	s.DamageQuadrant(QuadrantFront, 10)
	s.Update(4.9)
	if got := s.Shields().Front; got != 68 {
		t.Errorf("a fresh hit must reset the quiet window: got %v, want 68", got)
	}
}

func TestNoRegenWhileShieldsDown(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageShields(400)
	s.Update(100)
	if got := s.Shields().Overall(); got != 0 {
		t.Errorf("depleted shields must not regenerate: got overall %v", got)
	}
}

func TestRestoreShieldsRevivesRegen(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageShields(400)
	s.RestoreShields(40)
	sh := s.Shields()
	if sh.Front != 40 || !sh.Online {
		t.Fatalf("after restore: got %+v, want quadrants 40 online", sh)
	}

	s.Update(10)
	if got := s.Shields().Front; got <= 40 {
		t.Errorf("restored shields should regenerate: got front %v", got)
	}
}

func TestHullNeverAutoRegenerates(t *testing.T) {
	s, _ := newTestSystems(1)

	s.DamageHull(10)
	s.DamageHull(10)
	s.DamageHull(10)
	if s.Hull() != 70 {
		t.Fatalf("hull: got %v, want 70", s.Hull())
	}

	s.Update(1000)
	if s.Hull() != 70 {
		t.Errorf("hull must not regenerate over time: got %v", s.Hull())
	}

	s.RepairHull(15)
	if s.Hull() != 85 {
		t.Errorf("hull after repair: got %v, want 85", s.Hull())
	}
	s.RepairHull(1000)
	if s.Hull() != 100 {
		t.Errorf("hull repair must clamp at max: got %v", s.Hull())
	}
}

func TestCascadeHitsAtMostOneSubsystem(t *testing.T) {
	sawCascade := false
	sawClean := false
	for seed := int64(0); seed < 40; seed++ {
		s, _ := newTestSystems(seed)
		s.DamageHull(20)

		changed := 0
		for _, u := range s.Subsystems() {
			if u.Power != u.MaxPower {
				changed++
				if got, want := u.Power, u.MaxPower-10; got != want {
					t.Errorf("seed %d: cascaded unit power: got %v, want %v", seed, got, want)
				}
			}
		}
		switch changed {
		case 0:
			sawClean = true
		case 1:
			sawCascade = true
		default:
			t.Errorf("seed %d: cascade struck %d units, want at most 1", seed, changed)
		}
	}
	if !sawCascade || !sawClean {
		t.Errorf("expected both outcomes across seeds: cascade=%v clean=%v", sawCascade, sawClean)
	}
}

func TestCascadeNeedsHeavyHit(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		s, _ := newTestSystems(seed)
		s.DamageHull(12)
		for id, u := range s.Subsystems() {
			if u.Power != u.MaxPower {
				t.Errorf("seed %d: unit %s lost power on a light hit", seed, id)
			}
		}
	}
}

func TestSubsystemDrainAndRecharge(t *testing.T) {
	s, _ := newTestSystems(1)

	s.Update(1)
	if got, _ := s.Unit("weapons"); got.Power != 98 {
		t.Errorf("weapons after 1s active: got %v, want 98", got.Power)
	}
	if got, _ := s.Unit("life_support"); got.Power != 100 {
		t.Errorf("drainless active unit must hold max: got %v", got.Power)
	}

	s.SetActive("weapons", false)
	if got, _ := s.Unit("weapons"); got.Status != StatusCharging {
		t.Errorf("deactivated unit below max: got %v, want charging", got.Status)
	}

	s.Update(1)
	u, _ := s.Unit("weapons")
	if u.Power != 100 {
		t.Errorf("weapons after 1s recharge: got %v, want 100", u.Power)
	}
	if u.Status != StatusOnline {
		t.Errorf("recharged unit at max: got %v, want online", u.Status)
	}
}

func TestOfflineSubsystemStaysDownUntilRepair(t *testing.T) {
	s, rec := newTestSystems(1)
	for id := range s.Subsystems() {
		s.SetActive(id, false)
	}
	s.SetActive("weapons", true)

	for i := 0; i < 50; i++ {
		s.Update(1)
	}
	u, _ := s.Unit("weapons")
	if u.Status != StatusOffline || u.Power != 0 {
		t.Fatalf("weapons after full drain: got %v at %v, want offline at 0", u.Status, u.Power)
	}
	if got := rec.Count(audio.CueSubsystemOffline); got != 1 {
		t.Errorf("subsystem_offline: got %d cues, want 1", got)
	}

	s.Update(20)
	if u, _ = s.Unit("weapons"); u.Power != 0 {
		t.Errorf("offline unit must not recharge: got %v", u.Power)
	}

	if !s.Repair("weapons", 30) {
		t.Fatal("repair on a known unit should succeed")
	}
	u, _ = s.Unit("weapons")
	if u.Power != 30 || u.Status == StatusOffline {
		t.Errorf("after repair: got %v at %v, want non-offline at 30", u.Status, u.Power)
	}

	if s.Repair("holodeck", 10) {
		t.Error("repair on an unknown unit should report false")
	}
}

func TestDebrisHitShieldedStrikesOneQuadrant(t *testing.T) {
	s, rec := newTestSystems(3)

	s.DebrisHit()

	sh := s.Shields()
	struck := 0
	for _, v := range []float32{sh.Front, sh.Rear, sh.Port, sh.Starboard} {
		switch v {
		case 88:
			struck++
		case 100:
		default:
			t.Errorf("unexpected quadrant value %v", v)
		}
	}
	if struck != 1 {
		t.Errorf("struck quadrants: got %d, want 1", struck)
	}
	if s.Hull() != 100 {
		t.Errorf("hull must be untouched while shielded: got %v", s.Hull())
	}
	if got := rec.Count(audio.CueDebrisImpact); got != 1 {
		t.Errorf("debris_impact: got %d cues, want 1", got)
	}
}

func TestDebrisHitUnshieldedHalvesIntoHull(t *testing.T) {
	s, _ := newTestSystems(3)

	s.DamageShields(400)
	s.DebrisHit()

	if s.Hull() != 94 {
		t.Errorf("hull after unshielded debris strike: got %v, want 94", s.Hull())
	}
}

func TestAlertEdgesAndRedCue(t *testing.T) {
	s := NewSystems(nil, nil)

	s.DamageShields(240)
	if s.Alert() != AlertYellow {
		t.Errorf("overall 40: got %v, want yellow", s.Alert())
	}

	rec := &audio.Recorder{}
	s = NewSystems(nil, rec)
	s.DamageHull(51)
	if s.Alert() != AlertRed {
		t.Fatalf("hull 49: got %v, want red", s.Alert())
	}
	if got := rec.Count(audio.CueAlertRed); got != 1 {
		t.Errorf("alert_red on entering red: got %d cues, want 1", got)
	}

	s.DamageHull(10)
	if got := rec.Count(audio.CueAlertRed); got != 1 {
		t.Errorf("alert_red must not repeat while red: got %d cues", got)
	}

	s.RepairHull(60)
	if s.Alert() != AlertGreen {
		t.Errorf("after repair: got %v, want green", s.Alert())
	}

	s.DamageShields(310)
	if s.Alert() != AlertRed {
		t.Errorf("overall 22.5: got %v, want red", s.Alert())
	}
	if got := rec.Count(audio.CueAlertRed); got != 2 {
		t.Errorf("alert_red on re-entering red: got %d cues, want 2", got)
	}
}

func TestSnapshotRestoreMatchesBehavior(t *testing.T) {
	s, _ := newTestSystems(7)
	s.DamageQuadrant(QuadrantFront, 130)
	s.SetActive("sensors", false)
	s.Update(1.5)

	st := s.Snapshot()
	for i := 1; i < len(st.Subsystems); i++ {
		if st.Subsystems[i-1].ID >= st.Subsystems[i].ID {
			t.Fatalf("snapshot units not sorted: %s before %s", st.Subsystems[i-1].ID, st.Subsystems[i].ID)
		}
	}

	r := NewSystems(nil, nil)
	r.Restore(st)

	if r.Shields() != s.Shields() {
		t.Errorf("shields: got %+v, want %+v", r.Shields(), s.Shields())
	}
	if r.Hull() != s.Hull() {
		t.Errorf("hull: got %v, want %v", r.Hull(), s.Hull())
	}
	if r.Alert() != s.Alert() {
		t.Errorf("alert: got %v, want %v", r.Alert(), s.Alert())
	}

	s.Update(2)
	r.Update(2)
	if r.Shields() != s.Shields() {
		t.Errorf("shields diverged after restore: got %+v, want %+v", r.Shields(), s.Shields())
	}
	for id, want := range s.Subsystems() {
		got, ok := r.Unit(id)
		if !ok {
			t.Fatalf("restored registry missing %s", id)
		}
		if got != want {
			t.Errorf("unit %s diverged: got %+v, want %+v", id, got, want)
		}
	}
}

func TestQuadrantFromBearing(t *testing.T) {
	identity := rl.QuaternionIdentity()
	cases := []struct {
		name     string
		rotation rl.Quaternion
		incoming rl.Vector3
		want     Quadrant
	}{
		{"head-on", identity, rl.Vector3{Z: -1}, QuadrantFront},
		{"from astern", identity, rl.Vector3{Z: 1}, QuadrantRear},
		{"from starboard", identity, rl.Vector3{X: -1}, QuadrantStarboard},
		{"from port", identity, rl.Vector3{X: 1}, QuadrantPort},
		{"head-on after turn", rl.QuaternionFromEuler(0, math.Pi, 0), rl.Vector3{Z: 1}, QuadrantFront},
	}
	for _, tc := range cases {
		if got := QuadrantFromBearing(tc.rotation, tc.incoming); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
