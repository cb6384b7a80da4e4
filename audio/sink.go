// Package audio synthesizes positional cues for sound bus events through beep
package audio

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Pose reports the listener position and yaw; called on the emitting goroutine
type Pose func() (pos mgl64.Vec3, yaw float64)

// Sink turns sound events into attenuated, panned cues on a shared mixer
// The mixer is only audible after Start; without it cues accumulate for inspection
type Sink struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	pose    Pose
	master  float64
	radius  float64
	playing bool

	muted  atomic.Bool
	played [cueCount]atomic.Int64

	logger *log.Logger
}

// NewSink creates a silent sink; nil pose places the listener at the origin
func NewSink(pose Pose, logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if pose == nil {
		pose = func() (mgl64.Vec3, float64) { return mgl64.Vec3{}, 0 }
	}
	return &Sink{
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		mixer:  &beep.Mixer{},
		pose:   pose,
		master: parameter.AudioMasterVolume,
		radius: parameter.AudioHearingRadius,
		logger: logger,
	}
}

// Name identifies the sink as a service
func (s *Sink) Name() string { return "audio" }

// Start opens the speaker and plays the mixer; repeated calls are no-ops
func (s *Sink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(s.mixer)
	s.playing = true
	return nil
}

// Stop silences every cue and releases the speaker
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		speaker.Clear()
		speaker.Close()
		s.playing = false
	}
	s.mixer.Clear()
	return nil
}

// SetMuted drops new cues while true
func (s *Sink) SetMuted(m bool) {
	s.muted.Store(m)
}

// Muted reports the mute flag
func (s *Sink) Muted() bool {
	return s.muted.Load()
}

// Alert plays the cue for ev relative to the listener
func (s *Sink) Alert(ev sound.Event) {
	c, ok := CueFor(ev.Type)
	if !ok {
		return
	}
	pos, yaw := s.pose()
	gain, pan := s.spatialize(ev.Position, ev.Volume, pos, yaw)
	s.play(c, gain, pan)
}

// OnEvent plays non-spatial cues for story events
func (s *Sink) OnEvent(ev event.GameEvent) {
	if ev.Type != event.EventPlayerDamaged {
		return
	}
	s.play(CueDamage, vmath.Clamp01(ev.Value/parameter.AudioDamageFullScale)*s.master, 0)
}

// spatialize returns linear gain and stereo pan in [-1,1]
func (s *Sink) spatialize(src mgl64.Vec3, volume float64, pos mgl64.Vec3, yaw float64) (gain, pan float64) {
	d := src.Sub(pos)
	dist := d.Len()
	if !vmath.IsFinite(dist) || dist >= s.radius {
		return 0, 0
	}
	gain = vmath.Clamp01(volume) * s.master * (1 - dist/s.radius)
	if h := vmath.Horizontal(d); h.Len() > 1e-6 {
		pan = vmath.Clamp(h.Normalize().Dot(vmath.Right(yaw)), -1, 1)
	}
	return gain, pan
}

func (s *Sink) play(c Cue, gain, pan float64) {
	if s.muted.Load() || gain <= 0 || math.IsNaN(gain) {
		return
	}
	st := Build(c, gain, s.rate)
	if pan != 0 {
		st = &effects.Pan{Streamer: st, Pan: pan}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		speaker.Lock()
		s.mixer.Add(st)
		speaker.Unlock()
	} else {
		s.mixer.Add(st)
	}
	s.played[c].Add(1)
}

// Played returns how many times c was started
func (s *Sink) Played(c Cue) int64 {
	if c >= cueCount {
		return 0
	}
	return s.played[c].Load()
}

// Active returns the number of cues still on the mixer
func (s *Sink) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return s.mixer.Len()
}

// drain streams the mixer offline; only valid before Start
func (s *Sink) drain(samples int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([][2]float64, 512)
	total := 0
	for total < samples && s.mixer.Len() > 0 {
		n, _ := s.mixer.Stream(buf[:min(len(buf), samples-total)])
		total += n
	}
	return total
}
