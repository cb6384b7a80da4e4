package parameter

// Sound Event Bus
const (
	// SoundMemoryDuration is seconds an event stays perceivable
	SoundMemoryDuration = 5.0

	// SoundMaxEvents bounds retained events; oldest are dropped first
	SoundMaxEvents = 256
)
