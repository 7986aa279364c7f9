// Package math provides small vector helpers for sprite placement.
package math

import "math"

// Vec2 is a 2D vector in screen space (Y grows downward).
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Floor rounds both components down, snapping a position to whole pixels.
func (v Vec2) Floor() Vec2 {
	return Vec2{float32(math.Floor(float64(v.X))), float32(math.Floor(float64(v.Y)))}
}

// MirrorX negates X, used when a layer is drawn flipped.
func (v Vec2) MirrorX() Vec2 {
	return Vec2{-v.X, v.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
