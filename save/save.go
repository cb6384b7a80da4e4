// Package save encodes simulation snapshots with msgpack
package save

import (
	"errors"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/player"
	"github.com/lixenwraith/dead-signal/sound"
)

var (
	ErrVersion = errors.New("save: unsupported version")
	ErrCorrupt = errors.New("save: corrupt snapshot")
)

// Snapshot is the complete persisted simulation state
// The storage medium is the caller's concern
type Snapshot struct {
	ID      ulid.ULID `msgpack:"id"`
	Version int       `msgpack:"version"`

	Clock  float64 `msgpack:"clock"`
	State  uint8   `msgpack:"state"`
	Ending uint8   `msgpack:"ending"`
	// Choice is the story ending recorded before completion
	Choice uint8 `msgpack:"choice"`

	Player  player.State   `msgpack:"player"`
	Enemies enemy.Snapshot `msgpack:"enemies"`

	Sounds   []sound.Event `msgpack:"sounds"`
	SoundSeq uint64        `msgpack:"sound_seq"`

	Collected []string `msgpack:"collected"`
	Room      string   `msgpack:"room"`
}

// New stamps a fresh id and the current format version
func New() Snapshot {
	return Snapshot{
		ID:      ulid.Make(),
		Version: parameter.SnapshotVersion,
	}
}

// Encode writes s to w
func Encode(w io.Writer, s Snapshot) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode reads one snapshot from r and checks its version
func Decode(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if s.Version != parameter.SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return s, nil
}

// Marshal is Encode into a byte slice
func Marshal(s Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal is Decode from a byte slice
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if s.Version != parameter.SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return s, nil
}
