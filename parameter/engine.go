package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the real-time runner tick interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// RenderUpdateInterval is the debug viewer redraw interval
	RenderUpdateInterval = 33 * time.Millisecond

	// MaxFrameDelta caps a single simulation step in seconds
	// Guards against runaway catch-up after a stall (tab-resume, debugger pause)
	MaxFrameDelta = 0.1
)

// Terminal Conditions
const (
	// InsanityThreshold is the madness level that ends the game
	InsanityThreshold = 1.0
)

// Story Notifications
const (
	// EventHistorySize is the number of story notifications retained by the router
	EventHistorySize = 256

	// EventQueueSize bounds notifications waiting for the viewer
	EventQueueSize = 256
)

// Save Snapshot
const (
	// SnapshotVersion is bumped whenever the snapshot layout changes incompatibly
	SnapshotVersion = 1
)
