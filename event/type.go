package event

// EventType represents the type of story notification
type EventType int

const (
	// EventNone is the zero value, never emitted
	EventNone EventType = iota

	// EventEnemyKilled fires once when an enemy's health reaches zero
	// Trigger: enemy.Controller | Subject: enemy uuid
	EventEnemyKilled

	// EventRoomEntered fires when the player crosses into a named room
	// Trigger: facility room tracker | Subject: room id
	EventRoomEntered

	// EventItemCollected fires when a pickup is consumed
	// Trigger: player.Controller | Subject: item id
	EventItemCollected

	// EventPlayerDamaged fires for each accepted damage application
	// Trigger: player.Controller | Value: damage amount
	EventPlayerDamaged

	// EventMadnessThresholdCrossed fires once per threshold on the way up
	// Trigger: player.Controller | Value: threshold level
	EventMadnessThresholdCrossed

	// EventGameOver fires once when the simulation enters a terminal state
	// Trigger: engine.Simulation | Subject: ending name
	EventGameOver
)
