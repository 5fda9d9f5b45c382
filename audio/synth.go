package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Synth is the host-side Notifier that renders cues as synthesized tones.
// No audio assets; every cue is generated. Unknown cues are ignored.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	warpHum     *beep.Ctrl
	initialized bool
}

// NewSynth creates an uninitialized synth. Call Initialize before use;
// a synth that failed to initialize silently drops cues.
func NewSynth() *Synth {
	return &Synth{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and attaches the mixer.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Cleanup silences everything. The speaker itself stays open; beep has
// no close, clearing the mixer is the accepted shutdown.
func (s *Synth) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	if s.warpHum != nil {
		s.warpHum.Paused = true
		s.warpHum = nil
	}
	s.mixer.Clear()
	s.initialized = false
}

// Notify implements Notifier.
func (s *Synth) Notify(cue string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	switch cue {
	case CueWarpCharging:
		s.startWarpHum()
		s.playSweep(120, 480, 900*time.Millisecond)
	case CueWarpAccelerating:
		s.playSweep(300, 900, 600*time.Millisecond)
	case CueWarpCruising:
		s.playTone(620, 250*time.Millisecond)
	case CueWarpDecelerating:
		s.playSweep(900, 300, 600*time.Millisecond)
	case CueWarpArriving:
		s.playSweep(480, 120, 700*time.Millisecond)
	case CueWarpComplete:
		s.stopWarpHum()
		s.playTone(520, 180*time.Millisecond)
		s.playTone(780, 180*time.Millisecond)
	case CueWarpAborted:
		s.stopWarpHum()
		s.playBuzz(140, 350*time.Millisecond)

	case CueShieldsDown:
		s.playBuzz(95, 500*time.Millisecond)
	case CueAlertRed:
		s.playKlaxon(640*time.Millisecond)
	case CueSubsystemOffline:
		s.playBuzz(180, 250*time.Millisecond)
	case CueDebrisImpact:
		s.playBuzz(70, 150*time.Millisecond)

	case CuePhaserFire:
		s.playSweep(1400, 1100, 160*time.Millisecond)
	case CuePhaserOverheat:
		s.playBuzz(220, 400*time.Millisecond)
	case CueTorpedoAway:
		s.playSweep(500, 180, 300*time.Millisecond)
	case CueTargetLocked:
		s.playTone(960, 90*time.Millisecond)
	case CueTargetDestroyed:
		s.playSweep(700, 90, 450*time.Millisecond)

	case CueScanStarted:
		s.playTone(840, 120*time.Millisecond)
	case CueScanComplete:
		s.playTone(840, 100*time.Millisecond)
		s.playTone(1120, 140*time.Millisecond)
	case CueScanFailed:
		s.playBuzz(160, 300*time.Millisecond)
	}
}

// startWarpHum begins the looped drive hum for the duration of a warp run.
func (s *Synth) startWarpHum() {
	if s.warpHum != nil && !s.warpHum.Paused {
		return
	}
	ctrl := &beep.Ctrl{Streamer: NewHumGenerator(sampleRate), Paused: false}
	s.warpHum = ctrl
	s.mixer.Add(ctrl)
}

func (s *Synth) stopWarpHum() {
	if s.warpHum != nil {
		s.warpHum.Paused = true
		s.warpHum = nil
	}
}

func (s *Synth) playTone(freq float64, d time.Duration) {
	s.mixer.Add(beep.Take(sampleRate.N(d), NewToneGenerator(sampleRate, freq)))
}

func (s *Synth) playSweep(from, to float64, d time.Duration) {
	s.mixer.Add(beep.Take(sampleRate.N(d), NewSweepGenerator(sampleRate, from, to, d)))
}

func (s *Synth) playBuzz(freq float64, d time.Duration) {
	s.mixer.Add(beep.Take(sampleRate.N(d), NewBuzzGenerator(sampleRate, freq)))
}

func (s *Synth) playKlaxon(d time.Duration) {
	s.mixer.Add(beep.Take(sampleRate.N(d), NewKlaxonGenerator(sampleRate)))
}

// --- Generators ---

// ToneGenerator produces a plain sine tone with a short attack envelope.
type ToneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewToneGenerator creates a sine tone generator.
func NewToneGenerator(sr beep.SampleRate, freq float64) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Short attack to avoid clicks
		envelope := math.Min(t/0.01, 1.0)
		sample := 0.18 * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error { return nil }

// SweepGenerator produces a linear frequency sweep.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a frequency sweep generator over the given duration.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, total: sr.N(d)}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := float64(g.pos) / float64(g.total)
		if progress > 1 {
			progress = 1
		}
		freq := g.from + (g.to-g.from)*progress

		// Integrate phase so the sweep stays continuous
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		envelope := math.Min(float64(g.pos)/float64(g.sr)/0.01, 1.0)
		sample := 0.16 * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error { return nil }

// BuzzGenerator produces a harsh low buzz from stacked harmonics.
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz generator.
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.6

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error { return nil }

// KlaxonGenerator produces the two-tone alert klaxon.
type KlaxonGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewKlaxonGenerator creates a klaxon generator.
func NewKlaxonGenerator(sr beep.SampleRate) *KlaxonGenerator {
	return &KlaxonGenerator{sr: sr}
}

func (g *KlaxonGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Alternate between two tones at 4Hz
		freq := 440.0
		if int(t*8)%2 == 1 {
			freq = 330.0
		}
		envelope := math.Min(t/0.01, 1.0)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *KlaxonGenerator) Err() error { return nil }

// HumGenerator produces the looping warp drive hum, a slow beat between
// two detuned low oscillators.
type HumGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewHumGenerator creates a warp hum generator.
func NewHumGenerator(sr beep.SampleRate) *HumGenerator {
	return &HumGenerator{sr: sr}
}

func (g *HumGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.08 * math.Sin(2*math.Pi*55*t)
		sample += 0.08 * math.Sin(2*math.Pi*57.5*t)
		sample += 0.04 * math.Sin(2*math.Pi*110*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HumGenerator) Err() error { return nil }
