// Package enemy runs the pooled enemy population: perception, the shared transition table,
// per-state steering, melee attacks, death and proximity spawning
package enemy

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

var (
	// ErrPoolExhausted is returned when every arena slot is active
	ErrPoolExhausted = errors.New("enemy: pool exhausted")
	// ErrUnknownType is returned for unrecognized type names
	ErrUnknownType = errors.New("enemy: unknown type")
)

// Type selects a fixed stat block
type Type uint8

const (
	TypeInfectedScientist Type = iota
	TypeCorruptedSoldier
	TypeSignalEntity

	typeCount
)

var typeNames = [typeCount]string{
	"infected_scientist",
	"corrupted_soldier",
	"signal_entity",
}

func (t Type) String() string {
	if t >= typeCount {
		return fmt.Sprintf("type(%d)", t)
	}
	return typeNames[t]
}

// ParseType resolves a type name
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Stats is the per-type stat block
type Stats struct {
	MaxHealth      float64 `yaml:"max_health"`
	Speed          float64 `yaml:"speed"`
	DetectionRange float64 `yaml:"detection_range"`
	AttackRange    float64 `yaml:"attack_range"`
	AttackDamage   float64 `yaml:"attack_damage"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
}

// DefaultStats returns the parameter stat table indexed by Type
func DefaultStats() [typeCount]Stats {
	var out [typeCount]Stats
	for i, row := range parameter.EnemyTypeStats {
		out[i] = Stats{
			MaxHealth:      row[0],
			Speed:          row[1],
			DetectionRange: row[2],
			AttackRange:    row[3],
			AttackDamage:   row[4],
			AttackCooldown: row[5],
		}
	}
	return out
}

// TypeCount is the number of enemy types
const TypeCount = int(typeCount)

// sanitize replaces non-positive or non-finite fields with the default row
func (s Stats) sanitize(def Stats) Stats {
	pos := func(v, d float64) float64 {
		if !(v > 0) || !vmath.IsFinite(v) {
			return d
		}
		return v
	}
	s.MaxHealth = pos(s.MaxHealth, def.MaxHealth)
	s.Speed = pos(s.Speed, def.Speed)
	s.DetectionRange = pos(s.DetectionRange, def.DetectionRange)
	s.AttackRange = pos(s.AttackRange, def.AttackRange)
	s.AttackCooldown = pos(s.AttackCooldown, def.AttackCooldown)
	if !vmath.IsFinite(s.AttackDamage) || s.AttackDamage < 0 {
		s.AttackDamage = def.AttackDamage
	}
	return s
}
