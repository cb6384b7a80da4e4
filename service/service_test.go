package service

import (
	"errors"
	"slices"
	"testing"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	log      *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start "+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func TestGroupOrder(t *testing.T) {
	var log []string
	g := NewGroup(nil)
	g.Add(&fakeService{name: "a", log: &log})
	g.Add(&fakeService{name: "b", log: &log})

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := g.Stop(); err != nil {
		t.Fatal(err)
	}

	want := []string{"start a", "start b", "stop b", "stop a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestGroupRequiredFailureUnwinds(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	g := NewGroup(nil)
	g.Add(&fakeService{name: "a", log: &log})
	g.Add(&fakeService{name: "b", startErr: boom, log: &log})
	g.Add(&fakeService{name: "c", log: &log})

	err := g.Start()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	want := []string{"start a", "start b", "stop a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if g.Running("a") || g.Running("c") {
		t.Error("services left running")
	}
}

func TestGroupOptionalFailureContinues(t *testing.T) {
	var log []string
	stopErr := errors.New("stuck")
	g := NewGroup(nil)
	g.AddOptional(&fakeService{name: "audio", startErr: errors.New("no device"), log: &log})
	g.Add(&fakeService{name: "runner", stopErr: stopErr, log: &log})

	if err := g.Start(); err != nil {
		t.Fatalf("optional failure aborted: %v", err)
	}
	if g.Running("audio") || !g.Running("runner") {
		t.Error("running flags wrong")
	}
	if err := g.Stop(); !errors.Is(err, stopErr) {
		t.Errorf("stop err = %v", err)
	}
	want := []string{"start audio", "start runner", "stop runner"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}
