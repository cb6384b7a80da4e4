package audio

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"

	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/sound"
)

func streamAll(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 256)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Max(math.Abs(smp[0]), math.Abs(smp[1])))
		}
		total += n
		if !ok {
			break
		}
	}
	return total, peak
}

func TestVoiceLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, w := range []wave{waveSine, waveSquare, waveSaw, waveNoise} {
		sh := cueShape{duration: 50 * time.Millisecond, freq: 440, wave: w, sweep: -1, decay: 2}
		n, peak := streamAll(newVoice(sh, rate, 1))
		if n != rate.N(50*time.Millisecond) {
			t.Errorf("wave %d: streamed %d samples", w, n)
		}
		if peak > 1 {
			t.Errorf("wave %d: peak %f", w, peak)
		}
	}
}

func TestSquareWaveValues(t *testing.T) {
	for _, phase := range []float64{0, 0.25, 0.49, 0.5, 0.75, 0.99} {
		if v := waveSquare.at(phase, nil); v != 1 && v != -1 {
			t.Fatalf("phase %v = %f", phase, v)
		}
	}
}

func TestVoiceEnvelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	// A zero-frequency square wave is constant 1 so only the envelope shows
	flat := cueShape{duration: 100 * time.Millisecond, wave: waveSquare}

	buf := make([][2]float64, 100)
	n, _ := newVoice(flat, rate, 1).Stream(buf)
	if n != 100 {
		t.Fatalf("streamed %d", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("attack start = %f", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("sustain = %f", buf[50][0])
	}
	if buf[99][0] >= buf[90][0] {
		t.Errorf("release not falling: %f >= %f", buf[99][0], buf[90][0])
	}

	decaying := flat
	decaying.decay = 3
	newVoice(decaying, rate, 1).Stream(buf)
	if want := math.Exp(-1.5); math.Abs(buf[50][0]-want) > 1e-9 {
		t.Errorf("decay at half = %f, want %f", buf[50][0], want)
	}
}

func TestVoiceSweepRaisesPitch(t *testing.T) {
	rate := beep.SampleRate(1000)
	sh := cueShape{duration: time.Second, freq: 20, wave: waveSquare, sweep: 1}
	buf := make([][2]float64, 1000)
	newVoice(sh, rate, 1).Stream(buf)

	flips := func(part [][2]float64) int {
		n := 0
		for i := 1; i < len(part); i++ {
			if (part[i][0] > 0) != (part[i-1][0] > 0) {
				n++
			}
		}
		return n
	}
	// Skip the attack and release ramps, which only scale
	first, second := flips(buf[10:500]), flips(buf[500:950])
	if second <= first {
		t.Errorf("sign changes %d then %d, want rising pitch", first, second)
	}
}

func TestBuildCues(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	for c := Cue(0); c < cueCount; c++ {
		st := Build(c, 0.5, rate)
		if st == nil {
			t.Fatalf("%s: nil streamer", c)
		}
		n, peak := streamAll(st)
		if n != rate.N(c.Duration()) {
			t.Errorf("%s: %d samples, want %d", c, n, rate.N(c.Duration()))
		}
		if peak > 0.5+1e-9 {
			t.Errorf("%s: peak %f above gain", c, peak)
		}
	}
	if Build(cueCount, 1, rate) != nil {
		t.Error("unknown cue built")
	}
}

func TestCueForCoversSoundTypes(t *testing.T) {
	for _, ty := range []sound.Type{sound.TypeFootstep, sound.TypeGunshot, sound.TypeEmptyClick, sound.TypeImpact, sound.TypePickup, sound.TypeAttack} {
		if _, ok := CueFor(ty); !ok {
			t.Errorf("%s has no cue", ty)
		}
	}
	if _, ok := CueFor(sound.Type(200)); ok {
		t.Error("unknown type mapped")
	}
}

func TestSpatialize(t *testing.T) {
	s := NewSink(nil, nil)
	tests := []struct {
		name     string
		src      mgl64.Vec3
		yaw      float64
		wantGain bool
		panSign  float64
	}{
		{"at listener", mgl64.Vec3{}, 0, true, 0},
		{"out of range", mgl64.Vec3{0, 0, -parameter.AudioHearingRadius - 1}, 0, false, 0},
		{"to the right", mgl64.Vec3{5, 0, 0}, 0, true, 1},
		{"to the left", mgl64.Vec3{-5, 0, 0}, 0, true, -1},
		{"non-finite", mgl64.Vec3{math.NaN(), 0, 0}, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gain, pan := s.spatialize(tt.src, 1, mgl64.Vec3{}, tt.yaw)
			if (gain > 0) != tt.wantGain {
				t.Fatalf("gain = %f", gain)
			}
			if tt.panSign != 0 && pan*tt.panSign <= 0 {
				t.Errorf("pan = %f, want sign %v", pan, tt.panSign)
			}
			if pan < -1 || pan > 1 {
				t.Errorf("pan out of range: %f", pan)
			}
		})
	}

	near, _ := s.spatialize(mgl64.Vec3{0, 0, -2}, 1, mgl64.Vec3{}, 0)
	far, _ := s.spatialize(mgl64.Vec3{0, 0, -20}, 1, mgl64.Vec3{}, 0)
	if near <= far {
		t.Errorf("attenuation not monotonic: near %f far %f", near, far)
	}
}

func TestSinkListensToBus(t *testing.T) {
	s := NewSink(func() (mgl64.Vec3, float64) { return mgl64.Vec3{}, 0 }, nil)
	bus := sound.NewBus(0)
	bus.Subscribe(s)

	bus.Emit(mgl64.Vec3{1, 0, 0}, 1, sound.TypeGunshot, 0)
	bus.Emit(mgl64.Vec3{0, 0, -100}, 1, sound.TypeFootstep, 0)

	if got := s.Played(CueGunshot); got != 1 {
		t.Errorf("gunshot played %d", got)
	}
	if got := s.Played(CueFootstep); got != 0 {
		t.Errorf("distant footstep played %d", got)
	}
	if s.Active() != 1 {
		t.Fatalf("active = %d", s.Active())
	}

	s.drain(parameter.AudioSampleRate)
	if s.Active() != 0 {
		t.Errorf("cue still active after drain: %d", s.Active())
	}
}

func TestSinkMuteAndDamage(t *testing.T) {
	s := NewSink(nil, nil)
	s.OnEvent(event.GameEvent{Type: event.EventPlayerDamaged, Value: 10})
	s.OnEvent(event.GameEvent{Type: event.EventEnemyKilled, Value: 10})
	if s.Played(CueDamage) != 1 {
		t.Errorf("damage played %d", s.Played(CueDamage))
	}

	s.SetMuted(true)
	s.Alert(sound.Event{Type: sound.TypePickup, Volume: 1})
	if s.Played(CuePickup) != 0 {
		t.Error("muted sink played a cue")
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if s.Active() != 0 {
		t.Errorf("active after close = %d", s.Active())
	}
}
