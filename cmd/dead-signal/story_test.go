package main

import (
	"testing"
	"time"

	"github.com/lixenwraith/dead-signal/event"
)

func TestStoryKeepsRecentNotes(t *testing.T) {
	q := event.NewQueue()
	st := newStory(q)
	now := time.Unix(100, 0)

	q.Push(event.GameEvent{Type: event.EventRoomEntered, Subject: "lab_a"})
	q.Push(event.GameEvent{Type: event.EventNone})
	q.Push(event.GameEvent{Type: event.EventPlayerDamaged, Value: 12})

	got := st.lines(now)
	if len(got) != 2 || got[0] != "entered lab_a" || got[1] != "hit for 12" {
		t.Fatalf("lines = %q", got)
	}

	for i := 0; i < storyLines+2; i++ {
		q.Push(event.GameEvent{Type: event.EventItemCollected, Subject: "keycard"})
	}
	if got := st.lines(now); len(got) != storyLines {
		t.Errorf("len = %d, want %d", len(got), storyLines)
	}
	if got := st.lines(now.Add(storyTTL)); len(got) != 0 {
		t.Errorf("expired notes kept: %q", got)
	}
}
