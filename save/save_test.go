package save

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/player"
	"github.com/lixenwraith/dead-signal/sound"
)

func sample() Snapshot {
	s := New()
	s.Clock = 12.5
	s.State = 1
	s.Player = player.State{
		Position: mgl64.Vec3{1, 0.9, -3},
		Yaw:      0.4,
		Health:   80,
		Battery:  55,
		Madness:  0.3,
		Weapon:   player.Weapon{AmmoReserve: 20, ClipCurrent: 5, ClipMax: 8, LastFiredTime: 11},
	}
	s.Enemies = enemy.Snapshot{
		Enemies: []enemy.Instance{{
			ID:       uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			Type:     enemy.TypeCorruptedSoldier,
			Health:   60,
			Position: mgl64.Vec3{5, 0.9, 5},
			State:    fsm.Cursor{State: 3, TimeInState: 1.25},
			HeardSeq: 9,
		}},
		Spawns: []enemy.SpawnState{{Occupied: true}, {RearmAt: 40}},
		RNG:    []byte{1, 2, 3},
		Kills:  2,
	}
	s.Sounds = []sound.Event{{Seq: 9, Position: mgl64.Vec3{1, 1, 1}, Volume: 0.6, Type: sound.TypeGunshot, Time: 12}}
	s.SoundSeq = 9
	s.Collected = []string{"keycard"}
	s.Room = "lab"
	return s
}

func TestEncodeDecode(t *testing.T) {
	want := sample()
	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got %+v\nwant %+v", got, want)
	}

	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Unmarshal(data)
	if err != nil || again.ID != want.ID {
		t.Errorf("Unmarshal id %v err %v", again.ID, err)
	}
}

func TestDecodeRejects(t *testing.T) {
	s := sample()
	s.Version = 99
	data, err := Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); !errors.Is(err, ErrVersion) {
		t.Errorf("version err = %v", err)
	}
	if _, err := Decode(bytes.NewReader([]byte{0xc1})); !errors.Is(err, ErrCorrupt) {
		t.Errorf("corrupt err = %v", err)
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	if New().ID == New().ID {
		t.Error("duplicate ids")
	}
}
