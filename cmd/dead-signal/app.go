package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dead-signal/engine"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/save"
	"github.com/lixenwraith/dead-signal/status"
)

// app owns the terminal side: event pump, system actions and redraws
type app struct {
	screen  tcell.Screen
	runner  *engine.Runner
	keys    *input.KeyMap
	view    *view
	story   *story
	metrics *status.Registry
	debug   bool
	save    string
	logger  *log.Logger

	message     string
	messageTime time.Time
}

func (a *app) run(updates <-chan struct{}) {
	events := make(chan tcell.Event, 256)
	go func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	// Redraw at least this often so pause and end screens stay current
	idle := time.NewTicker(250 * time.Millisecond)
	defer idle.Stop()

	a.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !a.handle(ev) {
				return
			}
		case <-updates:
			a.draw()
		case <-idle.C:
			a.draw()
		}
	}
}

// handle processes one terminal event; false ends the program
func (a *app) handle(ev tcell.Event) bool {
	now := time.Now()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.keys.HandleKey(ev, now)
	case *tcell.EventMouse:
		a.keys.HandleMouse(ev, now)
	case *tcell.EventResize:
		a.screen.Sync()
	}

	for _, act := range a.keys.DrainSystem() {
		switch act {
		case input.ActionQuit:
			return false
		case input.ActionPause:
			a.keys.Release()
			a.runner.TogglePause()
		case input.ActionNewGame:
			var err error
			a.runner.Do(func(s *engine.Simulation) { err = s.NewGame() })
			a.report("new game", err)
		case input.ActionSave:
			a.report("saved "+a.save, a.saveGame())
		case input.ActionLoad:
			a.report("loaded "+a.save, a.loadGame())
		}
	}
	a.draw()
	return true
}

func (a *app) saveGame() error {
	var snap save.Snapshot
	a.runner.Read(func(s *engine.Simulation) { snap = s.Snapshot() })

	f, err := os.Create(a.save)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := save.Encode(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) loadGame() error {
	f, err := os.Open(a.save)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	defer f.Close()

	snap, err := save.Decode(f)
	if err != nil {
		return err
	}
	a.runner.Do(func(s *engine.Simulation) { err = s.Restore(snap) })
	return err
}

func (a *app) report(msg string, err error) {
	if err != nil {
		msg = err.Error()
		a.logger.Printf("[main] %v", err)
	}
	a.message = msg
	a.messageTime = time.Now()
}

func (a *app) draw() {
	var frame engine.Frame
	var lines []string
	a.runner.Read(func(s *engine.Simulation) {
		frame = s.Frame()
		if a.view.layout == nil {
			l := s.Layout()
			a.view.layout = &l
		}
	})
	if a.debug {
		lines = a.metrics.Lines()
	}

	msg := ""
	if time.Since(a.messageTime) < 3*time.Second {
		msg = a.message
	}

	a.screen.Clear()
	a.view.draw(a.screen, frame, msg, lines, a.story.lines(time.Now()))
	a.screen.Show()
}
