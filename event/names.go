package event

var typeNames = [...]string{
	EventNone:                    "none",
	EventEnemyKilled:             "enemy_killed",
	EventRoomEntered:             "room_entered",
	EventItemCollected:           "item_collected",
	EventPlayerDamaged:           "player_damaged",
	EventMadnessThresholdCrossed: "madness_threshold",
	EventGameOver:                "game_over",
}

// String returns the log name of the type
func (et EventType) String() string {
	if et < 0 || int(et) >= len(typeNames) {
		return typeNames[EventNone]
	}
	return typeNames[et]
}

// ParseEventType maps a log name back to its type
func ParseEventType(name string) (EventType, bool) {
	for i, n := range typeNames {
		if n == name && EventType(i) != EventNone {
			return EventType(i), true
		}
	}
	return EventNone, false
}
