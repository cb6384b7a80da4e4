package status

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestMetricPointerIsCached(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyTicks)
	b := r.Ints.Get(KeyTicks)
	if a != b {
		t.Fatal("Get returned a fresh pointer for an existing key")
	}
	a.Store(5)
	if b.Load() != 5 {
		t.Errorf("shared pointer = %d", b.Load())
	}
	if _, ok := r.Ints.Lookup(KeySubSteps); ok {
		t.Error("Lookup registered a metric")
	}
	if keys := r.Ints.Keys(); len(keys) != 1 || keys[0] != KeyTicks {
		t.Errorf("keys = %v", keys)
	}
}

func TestConcurrentFloatAdd(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()
	if got := f.Get(); got != 4000 {
		t.Errorf("sum = %v, want 4000", got)
	}
}

func TestFloatMax(t *testing.T) {
	var f AtomicFloat
	f.Max(0.3)
	f.Max(0.1)
	if f.Get() != 0.3 {
		t.Errorf("max = %v", f.Get())
	}
}

func TestStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value not empty")
	}
	s.Store(strings.Repeat("x", MaxStringLen+10))
	if len(s.Load()) != MaxStringLen {
		t.Errorf("len = %d", len(s.Load()))
	}
}

func TestStringCutsAtRuneBoundary(t *testing.T) {
	var s AtomicString
	s.Store(strings.Repeat("a", MaxStringLen-1) + "é")
	got := s.Load()
	if len(got) != MaxStringLen-1 || !utf8.ValidString(got) {
		t.Errorf("stored %q", got)
	}
}

func TestLinesSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyTicks).Store(3)
	r.Ints.Get(KeyEnemyActive).Store(2)
	r.Floats.Get(KeyPlayerMadness).Set(0.25)
	r.Strings.Get(KeyGameState).Store("playing")

	want := []string{
		"enemy.active 2",
		"engine.ticks 3",
		"player.madness 0.250",
		"engine.state playing",
	}
	got := r.Lines()
	if len(got) != len(want) {
		t.Fatalf("lines = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if r.TotalCount() != 4 {
		t.Errorf("count = %d", r.TotalCount())
	}
}
