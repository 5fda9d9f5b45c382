// Package scanner models the ship's deep scan cycle: a timed sweep of a
// single contact that either yields its survey report or fails when the
// contact is lost. The scanner tracks ids and ranges only; the caller
// resolves them against the live world each tick.
package scanner

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
)

// ErrOutOfRange marks a sweep refused because the contact sits beyond
// the array's maximum range.
var ErrOutOfRange = errors.New("out of scan range")

// Phase is the scan cycle state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseScanning Phase = "scanning"
	PhaseComplete Phase = "complete"
	PhaseFailed   Phase = "failed"
)

// Subject identifies the contact under scan. Report carries the contact's
// survey text when one is on file.
type Subject struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Report string `json:"report,omitempty"`
}

// State is the serializable scan cycle.
type State struct {
	Phase    Phase    `json:"phase"`
	Subject  *Subject `json:"subject,omitempty"`
	Progress float32  `json:"progress"`
	Report   string   `json:"report,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Array is the sensor array. A finished sweep, successful or not, holds
// its result until Reset.
type Array struct {
	notifier audio.Notifier
	state    State
}

// NewArray builds an idle sensor array. Pass nil for a notifier to
// discard cues.
func NewArray(notifier audio.Notifier) *Array {
	if notifier == nil {
		notifier = audio.Nop{}
	}
	return &Array{
		notifier: notifier,
		state:    State{Phase: PhaseIdle},
	}
}

// Phase returns the current cycle phase.
func (a *Array) Phase() Phase { return a.state.Phase }

// Scanning reports whether a sweep is in progress.
func (a *Array) Scanning() bool { return a.state.Phase == PhaseScanning }

// Progress returns sweep completion in percent.
func (a *Array) Progress() float32 { return a.state.Progress }

// Report returns the survey text of a completed sweep.
func (a *Array) Report() string { return a.state.Report }

// Err returns why the last sweep failed, or "".
func (a *Array) Err() string { return a.state.Error }

// Subject returns the contact under scan.
func (a *Array) Subject() (Subject, bool) {
	if a.state.Subject == nil {
		return Subject{}, false
	}
	return *a.state.Subject, true
}

// Start begins a sweep of the given contact. It refuses contacts beyond
// scan range and refuses to overwrite a finished sweep before Reset.
func (a *Array) Start(from rl.Vector3, subject Subject, subjectPos rl.Vector3) error {
	switch a.state.Phase {
	case PhaseScanning:
		return fmt.Errorf("scan of %s already running", a.state.Subject.Name)
	case PhaseComplete, PhaseFailed:
		return fmt.Errorf("scanner holds a finished sweep, reset first")
	}

	maxRange := float32(config.Cfg().Scanner.MaxRange)
	if dist := rl.Vector3Distance(from, subjectPos); dist > maxRange {
		a.state.Error = fmt.Sprintf("%s out of scan range (%.0f > %.0f)", subject.Name, dist, maxRange)
		a.notifier.Notify(audio.CueScanFailed)
		return fmt.Errorf("%s (%.0f > %.0f): %w", subject.Name, dist, maxRange, ErrOutOfRange)
	}

	s := subject
	a.state = State{Phase: PhaseScanning, Subject: &s}
	a.notifier.Notify(audio.CueScanStarted)
	return nil
}

// Update advances a running sweep by dt seconds. The caller passes the
// contact's current position and whether it still exists; a lost or
// out-of-range contact aborts the sweep.
func (a *Array) Update(from rl.Vector3, subjectPos rl.Vector3, alive bool, dt float32) {
	if a.state.Phase != PhaseScanning {
		return
	}
	if !alive {
		a.fail("contact lost")
		return
	}
	if rl.Vector3Distance(from, subjectPos) > float32(config.Cfg().Scanner.MaxRange) {
		a.fail(fmt.Sprintf("%s moved out of scan range", a.state.Subject.Name))
		return
	}

	a.state.Progress += dt / float32(config.Cfg().Scanner.DurationSec) * 100
	if a.state.Progress < 100 {
		return
	}
	a.state.Progress = 100
	a.state.Phase = PhaseComplete
	a.state.Report = a.state.Subject.Report
	if a.state.Report == "" {
		a.state.Report = config.Cfg().Scanner.UnknownReport
	}
	a.notifier.Notify(audio.CueScanComplete)
}

// Abort fails a running sweep with the given reason, for conditions the
// scanner cannot see itself such as the sensor array losing power. Idle
// and finished sweeps are unaffected.
func (a *Array) Abort(reason string) {
	if a.state.Phase != PhaseScanning {
		return
	}
	a.fail(reason)
}

// Reset clears a finished sweep so a new one can start. A running sweep
// is aborted.
func (a *Array) Reset() {
	a.state = State{Phase: PhaseIdle}
}

// Snapshot captures the scan cycle for persistence.
func (a *Array) Snapshot() State {
	st := a.state
	if a.state.Subject != nil {
		s := *a.state.Subject
		st.Subject = &s
	}
	return st
}

// Restore replaces the scan cycle with a previously captured state.
func (a *Array) Restore(st State) {
	if st.Subject != nil {
		s := *st.Subject
		st.Subject = &s
	}
	if st.Phase == "" {
		st.Phase = PhaseIdle
	}
	a.state = st
}

func (a *Array) fail(reason string) {
	a.state.Phase = PhaseFailed
	a.state.Error = reason
	a.notifier.Notify(audio.CueScanFailed)
}
