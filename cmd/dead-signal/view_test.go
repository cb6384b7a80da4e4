package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestProjectCentersOrigin(t *testing.T) {
	center := mgl64.Vec3{10, 0, -5}
	x, y, ok := project(center, center, 80, 20)
	if !ok || x != 40 || y != 10 {
		t.Fatalf("center projected to %d,%d ok=%v", x, y, ok)
	}

	x, y, ok = project(center, mgl64.Vec3{12, 0, -5}, 80, 20)
	if !ok || x != 40+int(2*cellsPerMeter*cellAspect) || y != 10 {
		t.Errorf("east projected to %d,%d", x, y)
	}

	if _, _, ok := project(center, mgl64.Vec3{10, 0, 100}, 80, 20); ok {
		t.Error("far point reported visible")
	}
}

func TestUnprojectInvertsProject(t *testing.T) {
	center := mgl64.Vec3{3, 1, 7}
	for _, cell := range [][2]int{{0, 0}, {40, 10}, {79, 19}, {13, 4}} {
		p := unproject(center, cell[0], cell[1], 80, 20)
		x, y, ok := project(center, p, 80, 20)
		if !ok || x != cell[0] || y != cell[1] {
			t.Errorf("cell %v round-tripped to %d,%d", cell, x, y)
		}
	}
}

func TestFacing(t *testing.T) {
	tests := []struct {
		yaw  float64
		want rune
	}{
		{0, '^'},
		{math.Pi, 'v'},
		{-math.Pi / 2, '>'},
		{math.Pi / 2, '<'},
	}
	for _, tt := range tests {
		if got := facing(tt.yaw); got != tt.want {
			t.Errorf("facing(%v) = %q, want %q", tt.yaw, got, tt.want)
		}
	}
}
