// Package service starts and stops long-running subsystems as a group
package service

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Service is a subsystem with background resources
// Stop must be idempotent
type Service interface {
	// Name identifies the service in logs and errors
	Name() string
	Start() error
	Stop() error
}

type member struct {
	svc      Service
	optional bool
	running  bool
}

// Group starts services in registration order and stops them in reverse
// Not safe for concurrent use
type Group struct {
	members []*member
	logger  *log.Logger
}

// NewGroup creates an empty group
func NewGroup(logger *log.Logger) *Group {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Group{logger: logger}
}

// Add registers a required service; a start failure aborts the group
func (g *Group) Add(s Service) {
	g.members = append(g.members, &member{svc: s})
}

// AddOptional registers a service whose start failure is logged and skipped
func (g *Group) AddOptional(s Service) {
	g.members = append(g.members, &member{svc: s, optional: true})
}

// Start starts every service; on a required failure the started ones are stopped
func (g *Group) Start() error {
	for _, m := range g.members {
		if m.running {
			continue
		}
		if err := m.svc.Start(); err != nil {
			if m.optional {
				g.logger.Printf("[service] %s unavailable: %v", m.svc.Name(), err)
				continue
			}
			startErr := fmt.Errorf("start %s: %w", m.svc.Name(), err)
			return errors.Join(startErr, g.Stop())
		}
		m.running = true
		g.logger.Printf("[service] %s started", m.svc.Name())
	}
	return nil
}

// Stop stops running services in reverse order and joins their errors
func (g *Group) Stop() error {
	var errs []error
	for i := len(g.members) - 1; i >= 0; i-- {
		m := g.members[i]
		if !m.running {
			continue
		}
		m.running = false
		if err := m.svc.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", m.svc.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Running reports whether the named service started successfully
func (g *Group) Running(name string) bool {
	for _, m := range g.members {
		if m.svc.Name() == name {
			return m.running
		}
	}
	return false
}
