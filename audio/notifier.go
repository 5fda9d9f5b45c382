// Package audio provides the gameplay cue channel.
//
// Simulation components report noteworthy moments as string cues through
// the Notifier interface; hosts decide what a cue sounds like. Cores never
// talk to the speaker directly.
package audio

// Gameplay cue identifiers.
const (
	CueWarpCharging     = "warp_charging"
	CueWarpAccelerating = "warp_accelerating"
	CueWarpCruising     = "warp_cruising"
	CueWarpDecelerating = "warp_decelerating"
	CueWarpArriving     = "warp_arriving"
	CueWarpComplete     = "warp_complete"
	CueWarpAborted      = "warp_aborted"

	CueShieldsDown      = "shields_down"
	CueAlertRed         = "alert_red"
	CueSubsystemOffline = "subsystem_offline"
	CueDebrisImpact     = "debris_impact"

	CuePhaserFire      = "phaser_fire"
	CuePhaserOverheat  = "phaser_overheat"
	CueTorpedoAway     = "torpedo_away"
	CueTargetLocked    = "target_locked"
	CueTargetDestroyed = "target_destroyed"

	CueScanStarted  = "scan_started"
	CueScanComplete = "scan_complete"
	CueScanFailed   = "scan_failed"
)

// Notifier receives gameplay cues. Implementations must be cheap and
// non-blocking; they are called from the simulation tick.
type Notifier interface {
	Notify(cue string)
}

// Nop discards all cues.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(string) {}

// Func adapts a plain function to the Notifier interface.
type Func func(string)

// Notify implements Notifier.
func (f Func) Notify(cue string) { f(cue) }

// Recorder collects cues in order. Test helper.
type Recorder struct {
	Cues []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(cue string) {
	r.Cues = append(r.Cues, cue)
}

// Count returns how many times a cue was seen.
func (r *Recorder) Count(cue string) int {
	n := 0
	for _, c := range r.Cues {
		if c == cue {
			n++
		}
	}
	return n
}

// Last returns the most recent cue, or "" if none were recorded.
func (r *Recorder) Last() string {
	if len(r.Cues) == 0 {
		return ""
	}
	return r.Cues[len(r.Cues)-1]
}
