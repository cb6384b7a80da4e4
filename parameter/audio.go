package parameter

import "time"

// Audio Cue Synthesis
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	AudioMasterVolume = 0.6

	// AudioHearingRadius is the listener distance beyond which cues are silent
	AudioHearingRadius = 30.0

	// AudioDamageFullScale is the damage amount played at master volume
	AudioDamageFullScale = 25.0
)

// Cue shapes
const (
	GunshotCueDuration = 180 * time.Millisecond
	GunshotCueFreq     = 90.0

	ClickCueDuration = 30 * time.Millisecond
	ClickCueFreq     = 2200.0

	FootstepCueDuration = 60 * time.Millisecond
	FootstepCueFreq     = 140.0

	ImpactCueDuration = 90 * time.Millisecond
	ImpactCueFreq     = 320.0

	PickupCueDuration = 150 * time.Millisecond
	PickupCueFreq     = 880.0

	DamageCueDuration = 200 * time.Millisecond
	DamageCueFreq     = 60.0

	CueAttack  = 5 * time.Millisecond
	CueRelease = 40 * time.Millisecond
)
