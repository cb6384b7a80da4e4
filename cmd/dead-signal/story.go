package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/dead-signal/event"
)

const (
	storyLines = 4
	storyTTL   = 6 * time.Second
)

type storyNote struct {
	text string
	at   time.Time
}

// story keeps the last few notifications drained from the simulation
type story struct {
	queue *event.Queue
	notes []storyNote
}

func newStory(q *event.Queue) *story {
	return &story{queue: q}
}

// lines drains the queue and returns notes younger than storyTTL, oldest first
func (st *story) lines(now time.Time) []string {
	for _, ev := range st.queue.Drain() {
		if text := describe(ev); text != "" {
			st.notes = append(st.notes, storyNote{text: text, at: now})
		}
	}
	if len(st.notes) > storyLines {
		st.notes = st.notes[len(st.notes)-storyLines:]
	}
	keep := st.notes[:0]
	for _, n := range st.notes {
		if now.Sub(n.at) < storyTTL {
			keep = append(keep, n)
		}
	}
	st.notes = keep

	out := make([]string, len(st.notes))
	for i, n := range st.notes {
		out[i] = n.text
	}
	return out
}

func describe(ev event.GameEvent) string {
	switch ev.Type {
	case event.EventEnemyKilled:
		return "something stops moving"
	case event.EventRoomEntered:
		return "entered " + ev.Subject
	case event.EventItemCollected:
		return "picked up " + ev.Subject
	case event.EventPlayerDamaged:
		return fmt.Sprintf("hit for %.0f", ev.Value)
	case event.EventMadnessThresholdCrossed:
		return fmt.Sprintf("the static grows louder (%.0f%%)", ev.Value*100)
	case event.EventGameOver:
		return "ending: " + ev.Subject
	}
	return ""
}
