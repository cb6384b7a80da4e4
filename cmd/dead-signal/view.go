package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/engine"
	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Terminal cells are about twice as tall as wide
const (
	cellsPerMeter = 1.0
	cellAspect    = 2.0
	hudRows       = 3
	soundGlyphAge = 0.6
)

var (
	styleDefault = tcell.StyleDefault
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleExit    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePickup  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleSound   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleSignal  = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleAlert   = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

// view draws a top-down map centered on the player
type view struct {
	layout *facility.Layout
}

func newView() *view {
	return &view{}
}

// project maps world XZ to a cell relative to center in a w by h map area
func project(center, p mgl64.Vec3, w, h int) (int, int, bool) {
	x := w/2 + int(math.Round((p.X()-center.X())*cellsPerMeter*cellAspect))
	y := h/2 + int(math.Round((p.Z()-center.Z())*cellsPerMeter))
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}

// unproject returns the world XZ at the center of cell x,y
func unproject(center mgl64.Vec3, x, y, w, h int) mgl64.Vec3 {
	return mgl64.Vec3{
		center.X() + float64(x-w/2)/(cellsPerMeter*cellAspect),
		center.Y(),
		center.Z() + float64(y-h/2)/cellsPerMeter,
	}
}

// facing picks an arrow for a yaw
func facing(yaw float64) rune {
	f := vmath.Forward(yaw)
	if math.Abs(f.X()) > math.Abs(f.Z()) {
		if f.X() > 0 {
			return '>'
		}
		return '<'
	}
	if f.Z() > 0 {
		return 'v'
	}
	return '^'
}

func (v *view) draw(s tcell.Screen, fr engine.Frame, msg string, metrics, notes []string) {
	w, h := s.Size()
	mapH := h - hudRows
	if w <= 0 || mapH <= 0 {
		return
	}
	center := fr.Player.Position

	if v.layout != nil {
		v.drawLayout(s, fr, center, w, mapH)
	}

	for _, ev := range fr.Sounds {
		if fr.Outcome.Time-ev.Time > soundGlyphAge {
			continue
		}
		if x, y, ok := project(center, ev.Position, w, mapH); ok {
			s.SetContent(x, y, '*', nil, styleSound)
		}
	}

	for _, e := range fr.Enemies {
		if x, y, ok := project(center, e.Position, w, mapH); ok {
			glyph := []rune(strings.ToUpper(e.Type.String()))[0]
			s.SetContent(x, y, glyph, nil, styleEnemy)
		}
	}

	if x, y, ok := project(center, center, w, mapH); ok {
		s.SetContent(x, y, facing(fr.Player.Yaw), nil, stylePlayer)
	}

	v.drawHUD(s, fr, msg, mapH)

	for i, line := range metrics {
		if i >= mapH {
			break
		}
		drawText(s, max(w-len(line), 0), i, styleHUD, line)
	}
	for i, note := range notes {
		if i >= mapH {
			break
		}
		drawText(s, 0, i, styleDefault, note)
	}
}

func (v *view) drawLayout(s tcell.Screen, fr engine.Frame, center mgl64.Vec3, w, h int) {
	l := v.layout
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := unproject(center, x, y, w, h)
			switch {
			case insideAnyXZ(l.Walls, p):
				s.SetContent(x, y, '#', nil, styleWall)
			case insideXZ(l.Exit, p):
				s.SetContent(x, y, '.', nil, styleExit)
			}
		}
	}

	for _, pk := range l.Pickups {
		if slices.Contains(fr.Collected, pk.ID) {
			continue
		}
		if x, y, ok := project(center, pk.Position, w, h); ok {
			s.SetContent(x, y, pickupGlyph(pk.Kind), nil, stylePickup)
		}
	}

	if l.SignalStrength > 0 {
		if x, y, ok := project(center, l.SignalSource, w, h); ok {
			s.SetContent(x, y, '@', nil, styleSignal)
		}
	}
}

func pickupGlyph(k facility.ItemKind) rune {
	switch k {
	case facility.ItemAmmo:
		return '='
	case facility.ItemBattery:
		return '%'
	case facility.ItemHealth:
		return '+'
	case facility.ItemKey:
		return 'k'
	case facility.ItemDocument:
		return '?'
	}
	return '$'
}

func insideXZ(b facility.Box, p mgl64.Vec3) bool {
	return math.Abs(p.X()-b.Center.X()) <= b.Half.X() && math.Abs(p.Z()-b.Center.Z()) <= b.Half.Z()
}

func insideAnyXZ(boxes []facility.Box, p mgl64.Vec3) bool {
	for _, b := range boxes {
		if insideXZ(b, p) {
			return true
		}
	}
	return false
}

func (v *view) drawHUD(s tcell.Screen, fr engine.Frame, msg string, top int) {
	hud := fr.HUD
	light := "off"
	if hud.FlashlightOn {
		light = "on"
	}
	ammo := fmt.Sprintf("%d/%d +%d", hud.ClipCurrent, hud.ClipMax, hud.AmmoReserve)
	if hud.Reloading {
		ammo += " reloading"
	}
	drawText(s, 0, top, styleHUD, fmt.Sprintf("HP %3.0f/%-3.0f  AMMO %s  BATTERY %3.0f%% (%s)  MADNESS %3.0f%%",
		hud.Health, hud.MaxHealth, ammo, hud.BatteryPercent, light, hud.MadnessPercent))
	drawText(s, 0, top+1, styleHUD, fmt.Sprintf("room %-12s  t=%7.1fs  %s  items %d",
		fr.Room, fr.Outcome.Time, fr.Outcome.State, len(fr.Collected)))

	switch {
	case fr.Outcome.Over():
		drawText(s, 0, top+2, styleAlert, fmt.Sprintf(" ENDING: %s  ^N new game  ^L load  ^Q quit ", fr.Outcome.Ending))
	case fr.Outcome.State == engine.StatePaused:
		drawText(s, 0, top+2, styleAlert, " PAUSED ")
	case msg != "":
		drawText(s, 0, top+2, styleDefault, msg)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
