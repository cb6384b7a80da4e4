// Package vmath holds float vector and scalar helpers shared by physics, player and AI
// Vectors are mgl64.Vec3; helpers here cover game conventions mgl64 does not (yaw frame, horizontal plane, sanitizing)
package vmath

import "math"

// IsFinite reports whether f is neither NaN nor ±Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Sanitize returns f if finite, else fallback
func Sanitize(f, fallback float64) float64 {
	if !IsFinite(f) {
		return fallback
	}
	return f
}

// Clamp bounds f to [lo, hi]; NaN maps to lo
func Clamp(f, lo, hi float64) float64 {
	if math.IsNaN(f) || f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Clamp01 bounds f to [0, 1]
func Clamp01(f float64) float64 {
	return Clamp(f, 0, 1)
}

// Lerp interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapAngle normalizes radians to (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDiff returns the shortest signed rotation from -> to
func AngleDiff(from, to float64) float64 {
	return WrapAngle(to - from)
}

// RotateToward turns from toward to by at most maxStep radians
func RotateToward(from, to, maxStep float64) float64 {
	d := AngleDiff(from, to)
	if math.Abs(d) <= maxStep {
		return WrapAngle(to)
	}
	if d > 0 {
		return WrapAngle(from + maxStep)
	}
	return WrapAngle(from - maxStep)
}

// ChanceInInterval converts a per-second rate into a probability for a step of dt seconds
// Keeps random timeouts independent of tick rate
func ChanceInInterval(ratePerSecond, dt float64) float64 {
	if ratePerSecond <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-ratePerSecond*dt)
}
