// Package config loads the game configuration from YAML over compiled-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/player"
	"github.com/lixenwraith/dead-signal/vmath"
)

// ErrInvalidConfig wraps every structural config failure
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the complete runtime configuration
type Config struct {
	Seed    uint64          `yaml:"seed"`
	Engine  EngineConfig    `yaml:"engine"`
	Physics physics.Config  `yaml:"physics"`
	Player  player.Config   `yaml:"player"`
	Enemy   EnemyConfig     `yaml:"enemy"`
	Sound   SoundConfig     `yaml:"sound"`
	Layout  facility.Layout `yaml:"layout"`
}

// EngineConfig tunes the tick orchestrator and real-time runner
type EngineConfig struct {
	MaxFrameDelta     float64       `yaml:"max_frame_delta"`
	TickInterval      time.Duration `yaml:"tick_interval"`
	InsanityThreshold float64       `yaml:"insanity_threshold"`
}

// EnemyConfig is the YAML view of enemy.Config; stats are keyed by type name
type EnemyConfig struct {
	MaxActive         int                    `yaml:"max_active"`
	SpawnMinDistance  float64                `yaml:"spawn_min_distance"`
	SpawnMaxDistance  float64                `yaml:"spawn_max_distance"`
	DespawnDistance   float64                `yaml:"despawn_distance"`
	DeathDespawnDelay float64                `yaml:"death_despawn_delay"`
	RespawnDelay      float64                `yaml:"respawn_delay"`
	AlertRadius       float64                `yaml:"alert_radius"`
	Stats             map[string]enemy.Stats `yaml:"stats"`
	// Navigate routes enemies around walls with flow fields
	Navigate bool `yaml:"navigate"`
	// Table replaces the built-in AI transition table
	Table *fsm.RootConfig `yaml:"table,omitempty"`
}

// SoundConfig tunes the sound event bus
type SoundConfig struct {
	Memory float64 `yaml:"memory"`
}

// Default returns the compiled-in configuration
func Default() Config {
	ec := enemy.DefaultConfig()
	stats := make(map[string]enemy.Stats, enemy.TypeCount)
	for i := 0; i < enemy.TypeCount; i++ {
		stats[enemy.Type(i).String()] = ec.Stats[i]
	}

	return Config{
		Seed: 1,
		Engine: EngineConfig{
			MaxFrameDelta:     parameter.MaxFrameDelta,
			TickInterval:      parameter.FrameUpdateInterval,
			InsanityThreshold: parameter.InsanityThreshold,
		},
		Physics: physics.DefaultConfig(),
		Player:  player.DefaultConfig(),
		Enemy: EnemyConfig{
			MaxActive:         ec.MaxActive,
			SpawnMinDistance:  ec.SpawnMinDistance,
			SpawnMaxDistance:  ec.SpawnMaxDistance,
			DespawnDistance:   ec.DespawnDistance,
			DeathDespawnDelay: ec.DeathDespawnDelay,
			RespawnDelay:      ec.RespawnDelay,
			AlertRadius:       ec.AlertRadius,
			Stats:             stats,
			Navigate:          true,
		},
		Sound:  SoundConfig{Memory: parameter.SoundMemoryDuration},
		Layout: facility.DefaultLayout(),
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
// Returns the list of values that were clamped
func Parse(data []byte) (Config, []string, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parse config: %w", err)
	}
	adjusted, err := cfg.Validate()
	if err != nil {
		return Config{}, adjusted, err
	}
	return cfg, adjusted, nil
}

// Validate clamps out-of-range numbers back to defaults and rejects structural errors
// Returns a description of every adjustment
func (c *Config) Validate() ([]string, error) {
	d := Default()
	var adjusted []string

	positive := func(name string, v *float64, def float64) {
		if !(*v > 0) || !vmath.IsFinite(*v) {
			adjusted = append(adjusted, fmt.Sprintf("%s %v -> %v", name, *v, def))
			*v = def
		}
	}

	positive("engine.max_frame_delta", &c.Engine.MaxFrameDelta, d.Engine.MaxFrameDelta)
	positive("engine.insanity_threshold", &c.Engine.InsanityThreshold, d.Engine.InsanityThreshold)
	if c.Engine.InsanityThreshold > 1 {
		adjusted = append(adjusted, fmt.Sprintf("engine.insanity_threshold %v -> 1", c.Engine.InsanityThreshold))
		c.Engine.InsanityThreshold = 1
	}
	if c.Engine.TickInterval <= 0 {
		adjusted = append(adjusted, fmt.Sprintf("engine.tick_interval %v -> %v", c.Engine.TickInterval, d.Engine.TickInterval))
		c.Engine.TickInterval = d.Engine.TickInterval
	}

	positive("physics.fixed_step", &c.Physics.FixedStep, d.Physics.FixedStep)
	if c.Physics.MaxSubSteps <= 0 {
		adjusted = append(adjusted, fmt.Sprintf("physics.max_sub_steps %d -> %d", c.Physics.MaxSubSteps, d.Physics.MaxSubSteps))
		c.Physics.MaxSubSteps = d.Physics.MaxSubSteps
	}
	if !vmath.IsFinite(c.Physics.Gravity) {
		adjusted = append(adjusted, "physics.gravity not finite")
		c.Physics.Gravity = d.Physics.Gravity
	}

	if s := player.ClampSensitivity(c.Player.Sensitivity); s != c.Player.Sensitivity {
		adjusted = append(adjusted, fmt.Sprintf("player.sensitivity %v -> %v", c.Player.Sensitivity, s))
		c.Player.Sensitivity = s
	}
	positive("player.max_health", &c.Player.MaxHealth, d.Player.MaxHealth)
	positive("player.max_battery", &c.Player.MaxBattery, d.Player.MaxBattery)
	if c.Player.ClipMax <= 0 {
		adjusted = append(adjusted, fmt.Sprintf("player.clip_max %d -> %d", c.Player.ClipMax, d.Player.ClipMax))
		c.Player.ClipMax = d.Player.ClipMax
	}

	if c.Enemy.MaxActive <= 0 {
		adjusted = append(adjusted, fmt.Sprintf("enemy.max_active %d -> %d", c.Enemy.MaxActive, d.Enemy.MaxActive))
		c.Enemy.MaxActive = d.Enemy.MaxActive
	}
	positive("enemy.spawn_min_distance", &c.Enemy.SpawnMinDistance, d.Enemy.SpawnMinDistance)
	positive("enemy.spawn_max_distance", &c.Enemy.SpawnMaxDistance, d.Enemy.SpawnMaxDistance)
	if c.Enemy.SpawnMaxDistance < c.Enemy.SpawnMinDistance {
		return adjusted, fmt.Errorf("%w: enemy spawn band [%v, %v] is empty", ErrInvalidConfig, c.Enemy.SpawnMinDistance, c.Enemy.SpawnMaxDistance)
	}
	positive("enemy.despawn_distance", &c.Enemy.DespawnDistance, d.Enemy.DespawnDistance)
	if c.Enemy.DespawnDistance < c.Enemy.SpawnMaxDistance {
		return adjusted, fmt.Errorf("%w: enemy despawn distance %v inside spawn band ending at %v", ErrInvalidConfig, c.Enemy.DespawnDistance, c.Enemy.SpawnMaxDistance)
	}
	positive("enemy.alert_radius", &c.Enemy.AlertRadius, d.Enemy.AlertRadius)
	for name := range c.Enemy.Stats {
		if _, err := enemy.ParseType(name); err != nil {
			return adjusted, fmt.Errorf("%w: enemy.stats: %w", ErrInvalidConfig, err)
		}
	}

	positive("sound.memory", &c.Sound.Memory, d.Sound.Memory)

	if err := c.Layout.Validate(); err != nil {
		return adjusted, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i, sp := range c.Layout.SpawnPoints {
		if _, err := enemy.ParseType(sp.Type); err != nil {
			return adjusted, fmt.Errorf("%w: spawn point %d: %w", ErrInvalidConfig, i, err)
		}
	}
	return adjusted, nil
}

// EnemyConfig converts to the controller config; missing stat rows keep defaults
func (c *Config) EnemyConfig() enemy.Config {
	ec := enemy.DefaultConfig()
	ec.MaxActive = c.Enemy.MaxActive
	ec.SpawnMinDistance = c.Enemy.SpawnMinDistance
	ec.SpawnMaxDistance = c.Enemy.SpawnMaxDistance
	ec.DespawnDistance = c.Enemy.DespawnDistance
	ec.DeathDespawnDelay = c.Enemy.DeathDespawnDelay
	ec.RespawnDelay = c.Enemy.RespawnDelay
	ec.AlertRadius = c.Enemy.AlertRadius
	for name, st := range c.Enemy.Stats {
		if t, err := enemy.ParseType(name); err == nil {
			ec.Stats[t] = st
		}
	}
	ec.SpawnPoints = c.Layout.SpawnPoints
	ec.Table = c.Enemy.Table
	ec.Seed = c.Seed
	return ec
}
