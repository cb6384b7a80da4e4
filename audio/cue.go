package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/sound"
)

// Cue is a synthesized sound effect
type Cue uint8

const (
	CueFootstep Cue = iota
	CueGunshot
	CueClick
	CueImpact
	CuePickup
	CueDamage
	cueCount
)

var cueNames = [cueCount]string{"footstep", "gunshot", "click", "impact", "pickup", "damage"}

func (c Cue) String() string {
	if c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// wave is an oscillator shape evaluated at a phase in [0, 1)
type wave uint8

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

func (w wave) at(phase float64, rng *rand.Rand) float64 {
	switch w {
	case waveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case waveSaw:
		return 2*phase - 1
	case waveNoise:
		return rng.Float64()*2 - 1
	}
	return math.Sin(2 * math.Pi * phase)
}

// cueShape is the synthesis recipe for one cue
type cueShape struct {
	duration time.Duration
	freq     float64
	wave     wave
	// Octaves the pitch moves over the cue, negative falls
	sweep float64
	// Exponential amplitude decay over the cue; 0 holds until the release
	decay float64
	// Optional second layer mixed under the fundamental
	layer     wave
	layerFreq float64
	layerGain float64
}

var cueShapes = [cueCount]cueShape{
	CueFootstep: {duration: parameter.FootstepCueDuration, freq: parameter.FootstepCueFreq, wave: waveSine, decay: 6, layer: waveNoise, layerGain: 0.4},
	CueGunshot:  {duration: parameter.GunshotCueDuration, freq: parameter.GunshotCueFreq, wave: waveNoise, sweep: -1, decay: 4, layer: waveSine, layerFreq: parameter.GunshotCueFreq, layerGain: 0.6},
	CueClick:    {duration: parameter.ClickCueDuration, freq: parameter.ClickCueFreq, wave: waveSquare},
	CueImpact:   {duration: parameter.ImpactCueDuration, freq: parameter.ImpactCueFreq, wave: waveSaw, sweep: -0.5, decay: 3},
	CuePickup:   {duration: parameter.PickupCueDuration, freq: parameter.PickupCueFreq, wave: waveSine, sweep: 1, layer: waveSine, layerFreq: parameter.PickupCueFreq * 2, layerGain: 0.3},
	CueDamage:   {duration: parameter.DamageCueDuration, freq: parameter.DamageCueFreq, wave: waveSaw, sweep: -0.5, decay: 1, layer: waveNoise, layerGain: 0.3},
}

// CueFor maps a perceptual sound to its cue
func CueFor(t sound.Type) (Cue, bool) {
	switch t {
	case sound.TypeFootstep:
		return CueFootstep, true
	case sound.TypeGunshot:
		return CueGunshot, true
	case sound.TypeEmptyClick:
		return CueClick, true
	case sound.TypeImpact, sound.TypeAttack:
		return CueImpact, true
	case sound.TypePickup:
		return CuePickup, true
	}
	return 0, false
}

// Duration returns the cue length
func (c Cue) Duration() time.Duration {
	if c >= cueCount {
		return 0
	}
	return cueShapes[c].duration
}

// Build synthesizes cue c at linear gain
func Build(c Cue, gain float64, rate beep.SampleRate) beep.Streamer {
	if c >= cueCount {
		return nil
	}
	return newVolume(newVoice(cueShapes[c], rate, uint64(c)+1), gain)
}

// newVolume scales linearly; log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// voice renders one cue sample by sample and ends after its duration
// Noise is seeded per cue so a cue always has the same texture
type voice struct {
	shape   cueShape
	rate    float64
	total   int
	attack  int
	release int
	pos     int
	phase   [2]float64
	rng     *rand.Rand
}

func newVoice(sh cueShape, rate beep.SampleRate, seed uint64) *voice {
	return &voice{
		shape:   sh,
		rate:    float64(rate),
		total:   rate.N(sh.duration),
		attack:  rate.N(parameter.CueAttack),
		release: rate.N(parameter.CueRelease),
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	sh := &v.shape
	for i := range samples {
		if v.pos >= v.total {
			return i, i > 0
		}
		p := float64(v.pos) / float64(v.total)
		bend := math.Exp2(sh.sweep * p)

		val := sh.wave.at(v.phase[0], v.rng)
		v.phase[0] = advance(v.phase[0], sh.freq*bend/v.rate)
		if g := sh.layerGain; g > 0 {
			val = (1-g)*val + g*sh.layer.at(v.phase[1], v.rng)
			v.phase[1] = advance(v.phase[1], sh.layerFreq*bend/v.rate)
		}
		val *= v.level(p)

		samples[i][0] = val
		samples[i][1] = val
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// level is the amplitude at progress p: linear attack, exponential decay, linear release to zero
func (v *voice) level(p float64) float64 {
	g := math.Exp(-v.shape.decay * p)
	if v.pos < v.attack {
		g *= float64(v.pos) / float64(v.attack)
	}
	if left := v.total - v.pos; left < v.release {
		g *= float64(left) / float64(v.release)
	}
	return g
}

func advance(phase, step float64) float64 {
	phase += step
	return phase - math.Floor(phase)
}
