// Package status is a lock-free metrics registry shared by the simulation and its viewers
package status

import (
	"fmt"
	"sync/atomic"
)

// Metric keys written by the simulation
const (
	KeyTicks          = "engine.ticks"
	KeySubSteps       = "engine.substeps"
	KeyPhasePanics    = "engine.phase_panics"
	KeyGameState      = "engine.state"
	KeyEnemyActive    = "enemy.active"
	KeySpawnFailures  = "enemy.spawn_failures"
	KeyEnemyKills     = "enemy.kills"
	KeySoundEvents    = "sound.events"
	KeyPlayerMadness  = "player.madness"
	KeyPlayerRoom     = "player.room"
	KeyPhysicsBodies  = "physics.bodies"
	KeyRunnerOverruns = "runner.overruns"
)

// Registry groups typed metric maps
// Writers cache pointers at construction and store directly into the atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of registered metrics across all maps
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders every metric as "key value", grouped by type and sorted by key
func (r *Registry) Lines() []string {
	out := make([]string, 0, r.TotalCount())
	r.Ints.each(func(k string, v *atomic.Int64) {
		out = append(out, fmt.Sprintf("%s %d", k, v.Load()))
	})
	r.Floats.each(func(k string, v *AtomicFloat) {
		out = append(out, fmt.Sprintf("%s %.3f", k, v.Get()))
	})
	r.Bools.each(func(k string, v *atomic.Bool) {
		out = append(out, fmt.Sprintf("%s %t", k, v.Load()))
	})
	r.Strings.each(func(k string, v *AtomicString) {
		out = append(out, fmt.Sprintf("%s %s", k, v.Load()))
	})
	return out
}
