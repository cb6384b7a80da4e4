package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dead-signal/parameter"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyMapHoldDecay(t *testing.T) {
	km := NewKeyMap(nil)
	t0 := time.Unix(100, 0)

	km.HandleKey(runeKey('w'), t0)

	if in := km.Poll(t0.Add(10 * time.Millisecond)); !in.MoveForward {
		t.Fatal("forward not held right after press")
	}
	if in := km.Poll(t0.Add(parameter.InputHoldDuration / 2)); !in.MoveForward {
		t.Error("hold expired early")
	}
	if in := km.Poll(t0.Add(parameter.InputHoldDuration + time.Millisecond)); in.MoveForward {
		t.Error("hold did not decay")
	}

	// Auto-repeat extends the hold
	km.HandleKey(runeKey('w'), t0.Add(time.Second))
	km.HandleKey(runeKey('w'), t0.Add(time.Second+parameter.InputHoldDuration-time.Millisecond))
	if in := km.Poll(t0.Add(time.Second + parameter.InputHoldDuration + time.Millisecond)); !in.MoveForward {
		t.Error("repeat did not extend hold")
	}
}

func TestKeyMapPulseSurvivesLatePoll(t *testing.T) {
	km := NewKeyMap(nil)
	t0 := time.Unix(100, 0)

	km.HandleKey(runeKey('f'), t0)
	// Poll arrives after the hold already expired, the press is still reported once
	if in := km.Poll(t0.Add(time.Second)); !in.Fire {
		t.Fatal("press lost before first poll")
	}
	if in := km.Poll(t0.Add(time.Second)); in.Fire {
		t.Error("press reported twice")
	}
}

func TestKeyMapLookDeltaResets(t *testing.T) {
	km := NewKeyMap(nil)
	now := time.Unix(100, 0)

	km.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), now)
	km.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), now)
	km.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), now)

	in := km.Poll(now)
	if in.LookDeltaX != 2*parameter.LookKeyStep || in.LookDeltaY != -parameter.LookKeyStep {
		t.Errorf("look = (%v,%v)", in.LookDeltaX, in.LookDeltaY)
	}
	if in = km.Poll(now); in.LookDeltaX != 0 || in.LookDeltaY != 0 {
		t.Error("look deltas not reset by poll")
	}
}

func TestKeyMapSystemActions(t *testing.T) {
	km := NewKeyMap(nil)
	now := time.Unix(100, 0)

	if a := km.HandleKey(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModNone), now); a != ActionQuit {
		t.Fatalf("ctrl-q = %v", a)
	}
	km.HandleKey(runeKey('p'), now)

	got := km.DrainSystem()
	if len(got) != 2 || got[0] != ActionQuit || got[1] != ActionPause {
		t.Errorf("system = %v", got)
	}
	if km.DrainSystem() != nil {
		t.Error("drain did not clear")
	}
}

func TestShiftedLetterFallsBack(t *testing.T) {
	km := NewKeyMap(nil)
	now := time.Unix(100, 0)
	km.HandleKey(runeKey('W'), now)
	if !km.Poll(now).MoveForward {
		t.Error("uppercase W not bound")
	}
}

func TestLoadKeyConfigOverride(t *testing.T) {
	data := []byte(`
runes:
  space: crouch
  j: jump
  c: none
keys:
  Enter: reload
`)
	override, err := LoadKeyConfig(data)
	if err != nil {
		t.Fatalf("LoadKeyConfig: %v", err)
	}
	kt := MergeKeyTable(DefaultKeyTable(), override)

	if kt.Runes[' '] != ActionCrouch || kt.Runes['j'] != ActionJump {
		t.Errorf("rune overrides not applied: %v", kt.Runes)
	}
	if _, ok := kt.Runes['c']; ok {
		t.Error("none did not unbind c")
	}
	if kt.Keys[tcell.KeyEnter] != ActionReload {
		t.Errorf("enter = %v", kt.Keys[tcell.KeyEnter])
	}
	// Base untouched
	if DefaultKeyTable().Runes['c'] != ActionCrouch {
		t.Error("merge mutated base")
	}
}

func TestLoadKeyConfigErrors(t *testing.T) {
	tests := []string{
		"runes:\n  w: teleport\n",
		"runes:\n  ww: jump\n",
		"keys:\n  NoSuchKey: jump\n",
		"runes: [",
	}
	for _, data := range tests {
		if _, err := LoadKeyConfig([]byte(data)); err == nil {
			t.Errorf("config %q accepted", data)
		}
	}
}
