package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Yaw convention: yaw 0 faces -Z, positive yaw turns left (counter-clockwise seen from +Y)

// Up is the world vertical axis
var Up = mgl64.Vec3{0, 1, 0}

// Forward returns the horizontal unit facing vector for a yaw
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
}

// Right returns the horizontal unit vector to the right of a yaw
func Right(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}

// Direction returns the unit look vector for yaw and pitch
func Direction(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{-math.Sin(yaw) * cp, math.Sin(pitch), -math.Cos(yaw) * cp}
}

// YawToward returns the yaw facing along the horizontal part of d
// Returns fallback when d has no horizontal extent
func YawToward(d mgl64.Vec3, fallback float64) float64 {
	if d.X() == 0 && d.Z() == 0 {
		return fallback
	}
	return math.Atan2(-d.X(), -d.Z())
}

// Horizontal drops the vertical component
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// HorizontalDist is the distance between two points ignoring height
func HorizontalDist(a, b mgl64.Vec3) float64 {
	dx, dz := b.X()-a.X(), b.Z()-a.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// SafeNormalize returns the unit vector or zero for degenerate input
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-9 || !IsFinite(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ClampHorizontal limits the horizontal magnitude of v, vertical part untouched
func ClampHorizontal(v mgl64.Vec3, max float64) mgl64.Vec3 {
	h := Horizontal(v)
	l := h.Len()
	if l <= max || l == 0 {
		return v
	}
	s := max / l
	return mgl64.Vec3{v.X() * s, v.Y(), v.Z() * s}
}

// FiniteVec reports whether all components are finite
func FiniteVec(v mgl64.Vec3) bool {
	return IsFinite(v.X()) && IsFinite(v.Y()) && IsFinite(v.Z())
}
