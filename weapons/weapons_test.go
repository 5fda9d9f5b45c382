package weapons

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
)

func init() {
	config.MustInit("")
}

func newTestBattery() (*Battery, *audio.Recorder) {
	rec := &audio.Recorder{}
	return NewBattery(rec), rec
}

func lineup(dists ...float32) []Candidate {
	out := make([]Candidate, len(dists))
	for i, d := range dists {
		out[i] = Candidate{
			ID:       string(rune('a' + i)),
			Name:     "contact",
			Kind:     KindHostile,
			Position: rl.Vector3{Z: d},
		}
	}
	return out
}

func TestPhaserHeatBuildsToOverheat(t *testing.T) {
	b, rec := newTestBattery()

	b.SetFiring(true)
	if !b.Firing() {
		t.Fatal("beam should open on a cold bank")
	}
	if got := rec.Count(audio.CuePhaserFire); got != 1 {
		t.Errorf("phaser_fire: got %d cues, want 1", got)
	}

	for i := 0; i < 3; i++ {
		b.Update(1)
	}
	if got := b.Heat(); got != 75 {
		t.Errorf("heat after 3s: got %v, want 75", got)
	}
	if !b.Firing() || b.Overheated() {
		t.Error("bank should still be firing below max heat")
	}

	b.Update(1)
	if got := b.Heat(); got != 100 {
		t.Errorf("heat at overheat: got %v, want 100", got)
	}
	if b.Firing() {
		t.Error("overheat must force the beam closed")
	}
	if !b.Overheated() {
		t.Error("bank should be overheated at max heat")
	}
	if got := rec.Count(audio.CuePhaserOverheat); got != 1 {
		t.Errorf("phaser_overheat: got %d cues, want 1", got)
	}
}

func TestOverheatedBankRefusesFireUntilCold(t *testing.T) {
	b, rec := newTestBattery()
	b.SetFiring(true)
	for i := 0; i < 4; i++ {
		b.Update(1)
	}

	b.SetFiring(true)
	if b.Firing() {
		t.Error("overheated bank must refuse to fire")
	}
	if got := rec.Count(audio.CuePhaserFire); got != 1 {
		t.Errorf("refused fire must not cue: got %d", got)
	}

	for i := 0; i < 7; i++ {
		b.Update(1)
	}
	if !b.Overheated() {
		t.Fatalf("bank should stay locked out while warm: heat %v", b.Heat())
	}

	b.Update(1)
	if b.Overheated() || b.Heat() != 0 {
		t.Fatalf("bank should clear at zero heat: overheated=%v heat=%v", b.Overheated(), b.Heat())
	}

	b.SetFiring(true)
	if !b.Firing() {
		t.Error("cold bank should fire again")
	}
}

func TestPhaserCoolsWhileIdle(t *testing.T) {
	b, _ := newTestBattery()
	b.SetFiring(true)
	b.Update(2)
	b.SetFiring(false)

	b.Update(1)
	if got := b.Heat(); got != 37.5 {
		t.Errorf("heat after 1s idle: got %v, want 37.5", got)
	}

	b.Update(100)
	if got := b.Heat(); got != 0 {
		t.Errorf("heat must clamp at zero: got %v", got)
	}
}

func TestBeamDamageOnlyWhileFiring(t *testing.T) {
	b, _ := newTestBattery()
	if got := b.BeamDamage(1); got != 0 {
		t.Errorf("closed beam damage: got %v, want 0", got)
	}
	b.SetFiring(true)
	if got := b.BeamDamage(0.5); got != 9 {
		t.Errorf("open beam damage over 0.5s: got %v, want 9", got)
	}
}

func TestTorpedoInventoryAndReloadLockout(t *testing.T) {
	b, rec := newTestBattery()

	if !b.LaunchTorpedo() {
		t.Fatal("first launch should succeed")
	}
	if got := b.TorpedoesLeft(); got != 5 {
		t.Errorf("inventory after launch: got %d, want 5", got)
	}
	if b.LaunchTorpedo() {
		t.Error("launch during reload must be refused")
	}
	if got := b.TorpedoesLeft(); got != 5 {
		t.Errorf("refused launch must not spend inventory: got %d", got)
	}

	b.Update(4)
	if !b.TorpedoReady() {
		t.Fatalf("tubes should be ready after reload: %v left", b.ReloadLeft())
	}

	for b.TorpedoReady() {
		b.LaunchTorpedo()
		b.Update(4)
	}
	if got := b.TorpedoesLeft(); got != 0 {
		t.Errorf("inventory after emptying tubes: got %d, want 0", got)
	}
	if b.LaunchTorpedo() {
		t.Error("empty tubes must refuse to launch")
	}
	if got := rec.Count(audio.CueTorpedoAway); got != 6 {
		t.Errorf("torpedo_away: got %d cues, want 6", got)
	}
}

func TestCycleTargetWalksOutwardAndWraps(t *testing.T) {
	b, rec := newTestBattery()
	from := rl.Vector3{}
	cands := lineup(10, 50, 200, 2500)

	want := []float32{10, 50, 200, 10}
	for i, w := range want {
		sel, ok := b.CycleTarget(from, cands)
		if !ok {
			t.Fatalf("cycle %d: no selection", i)
		}
		if sel.Distance != w {
			t.Errorf("cycle %d: got distance %v, want %v", i, sel.Distance, w)
		}
	}
	if got := rec.Count(audio.CueTargetLocked); got != 4 {
		t.Errorf("target_locked: got %d cues, want 4", got)
	}
}

func TestCycleTargetDiscardsBeyondRange(t *testing.T) {
	b, _ := newTestBattery()
	from := rl.Vector3{}

	for i := 0; i < 8; i++ {
		sel, ok := b.CycleTarget(from, lineup(10, 50, 2500))
		if !ok {
			t.Fatalf("cycle %d: no selection", i)
		}
		if sel.Distance > 2000 {
			t.Errorf("cycle %d: selected out-of-range contact at %v", i, sel.Distance)
		}
	}
}

func TestCycleTargetVanishedLockFallsToNearest(t *testing.T) {
	b, _ := newTestBattery()
	from := rl.Vector3{}
	cands := lineup(10, 50, 200)

	b.CycleTarget(from, cands)
	sel, _ := b.CycleTarget(from, cands)
	if sel.Distance != 50 {
		t.Fatalf("setup: got distance %v, want 50", sel.Distance)
	}

	without := []Candidate{cands[0], cands[2]}
	sel, ok := b.CycleTarget(from, without)
	if !ok || sel.Distance != 10 {
		t.Errorf("vanished lock should fall to nearest: got %v ok=%v", sel.Distance, ok)
	}
}

func TestCycleTargetNoCandidatesClearsLock(t *testing.T) {
	b, _ := newTestBattery()
	from := rl.Vector3{}

	b.CycleTarget(from, lineup(10))
	if _, ok := b.Target(); !ok {
		t.Fatal("setup: expected a lock")
	}

	_, ok := b.CycleTarget(from, lineup(2500, 3000))
	if ok {
		t.Error("cycle with nothing in range should select nothing")
	}
	if _, locked := b.Target(); locked {
		t.Error("lock should be cleared when nothing is in range")
	}
}

func TestDropTargetOnlyMatchingID(t *testing.T) {
	b, _ := newTestBattery()
	b.CycleTarget(rl.Vector3{}, lineup(10))

	if b.DropTarget("zz") {
		t.Error("drop of an unrelated id should report false")
	}
	if !b.DropTarget("a") {
		t.Error("drop of the locked id should report true")
	}
	if _, ok := b.Target(); ok {
		t.Error("lock should be gone after drop")
	}
}

func TestSnapshotRestoreKeepsArmamentState(t *testing.T) {
	b, _ := newTestBattery()
	b.SetFiring(true)
	b.Update(1.5)
	b.LaunchTorpedo()
	b.CycleTarget(rl.Vector3{}, lineup(10, 50))

	st := b.Snapshot()
	r := NewBattery(nil)
	r.Restore(st)

	if r.Heat() != b.Heat() || r.Firing() != b.Firing() || r.Overheated() != b.Overheated() {
		t.Errorf("phaser state diverged: got heat=%v firing=%v, want heat=%v firing=%v",
			r.Heat(), r.Firing(), b.Heat(), b.Firing())
	}
	if r.TorpedoesLeft() != b.TorpedoesLeft() || r.ReloadLeft() != b.ReloadLeft() {
		t.Errorf("tubes state diverged: got %d/%v, want %d/%v",
			r.TorpedoesLeft(), r.ReloadLeft(), b.TorpedoesLeft(), b.ReloadLeft())
	}
	got, gotOK := r.Target()
	want, wantOK := b.Target()
	if gotOK != wantOK || got != want {
		t.Errorf("lock diverged: got %+v %v, want %+v %v", got, gotOK, want, wantOK)
	}
}
