package status

import (
	"maps"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// MetricMap holds one metric per key; lookups after the first are read-locked only
type MetricMap[T any] struct {
	mu      sync.RWMutex
	metrics map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{metrics: make(map[string]*T)}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	if p, ok := m.Lookup(key); ok {
		return p
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.metrics[key]
	if !ok {
		p = new(T)
		m.metrics[key] = p
	}
	return p
}

// Lookup returns the metric for key without registering it
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.metrics[key]
	return p, ok
}

// Keys returns the registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.metrics))
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.metrics)
}

// each visits metrics in key order
func (m *MetricMap[T]) each(fn func(string, *T)) {
	for _, k := range m.Keys() {
		p, _ := m.Lookup(k)
		fn(k, p)
	}
}

// AtomicFloat is a float64 gauge; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores v
func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }

// Get loads the current value
func (f *AtomicFloat) Get() float64 { return math.Float64frombits(f.bits.Load()) }

// Add accumulates delta and returns the sum
func (f *AtomicFloat) Add(delta float64) float64 {
	return f.update(func(v float64) (float64, bool) { return v + delta, true })
}

// Max keeps the larger of the stored value and v
func (f *AtomicFloat) Max(v float64) {
	f.update(func(cur float64) (float64, bool) { return v, v > cur })
}

// update retries fn until its result is swapped in or fn declines
func (f *AtomicFloat) update(fn func(float64) (float64, bool)) float64 {
	for {
		old := f.bits.Load()
		next, ok := fn(math.Float64frombits(old))
		if !ok {
			return math.Float64frombits(old)
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// MaxStringLen caps stored strings in bytes; room ids and state names fit
const MaxStringLen = 32

// AtomicString is a short label such as the current room; the zero value reads ""
type AtomicString struct {
	p atomic.Pointer[string]
}

// Store sets s, cut at a rune boundary to at most MaxStringLen bytes
func (a *AtomicString) Store(s string) {
	if len(s) > MaxStringLen {
		cut := MaxStringLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	a.p.Store(&s)
}

// Load returns the stored label
func (a *AtomicString) Load() string {
	if p := a.p.Load(); p != nil {
		return *p
	}
	return ""
}
