package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/facility"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	adjusted, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(adjusted) != 0 {
		t.Errorf("defaults adjusted: %v", adjusted)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
seed: 42
engine:
  tick_interval: 10ms
player:
  walk_speed: 4
  clip_max: 12
enemy:
  max_active: 3
  stats:
    signal_entity:
      max_health: 300
      speed: 5
      detection_range: 30
      attack_range: 3
      attack_damage: 40
      attack_cooldown: 3
`)
	cfg, adjusted, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(adjusted) != 0 {
		t.Errorf("adjusted: %v", adjusted)
	}
	if cfg.Seed != 42 || cfg.Engine.TickInterval != 10*time.Millisecond {
		t.Errorf("seed %d tick %v", cfg.Seed, cfg.Engine.TickInterval)
	}
	if cfg.Player.WalkSpeed != 4 || cfg.Player.ClipMax != 12 {
		t.Errorf("player = %+v", cfg.Player)
	}
	// Untouched fields keep defaults
	if cfg.Player.SprintSpeed != Default().Player.SprintSpeed {
		t.Errorf("sprint speed lost: %v", cfg.Player.SprintSpeed)
	}

	ec := cfg.EnemyConfig()
	if ec.MaxActive != 3 || ec.Seed != 42 {
		t.Errorf("enemy max %d seed %d", ec.MaxActive, ec.Seed)
	}
	if ec.Stats[enemy.TypeSignalEntity].MaxHealth != 300 {
		t.Errorf("stats override lost: %+v", ec.Stats[enemy.TypeSignalEntity])
	}
	if ec.Stats[enemy.TypeInfectedScientist].MaxHealth != 50 {
		t.Errorf("default row changed: %+v", ec.Stats[enemy.TypeInfectedScientist])
	}
	if len(ec.SpawnPoints) != len(facility.DefaultLayout().SpawnPoints) {
		t.Errorf("spawn points = %d", len(ec.SpawnPoints))
	}
}

func TestValidateClamps(t *testing.T) {
	cfg, adjusted, err := Parse([]byte(`
player:
  sensitivity: 5
engine:
  max_frame_delta: -1
sound:
  memory: 0
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(adjusted) != 3 {
		t.Errorf("adjusted = %v", adjusted)
	}
	d := Default()
	if cfg.Player.Sensitivity != d.Player.Sensitivity || cfg.Engine.MaxFrameDelta != d.Engine.MaxFrameDelta || cfg.Sound.Memory != d.Sound.Memory {
		t.Errorf("not clamped: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown stats type", "enemy:\n  stats:\n    vampire: {max_health: 1}\n"},
		{"empty spawn band", "enemy:\n  spawn_min_distance: 40\n  spawn_max_distance: 10\n"},
		{"despawn inside spawn band", "enemy:\n  spawn_max_distance: 35\n  despawn_distance: 20\n"},
		{"unknown spawn type", "layout:\n  spawn_points:\n    - {position: [0, 1, 0], type: ghost}\n"},
		{"required item missing", "layout:\n  required_items: [nothing]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := Load(path)
	if err != nil || cfg.Seed != 7 {
		t.Errorf("Load = %d, %v", cfg.Seed, err)
	}
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, _, err := Parse([]byte("seed: [")); err == nil {
		t.Error("bad yaml accepted")
	}
}
