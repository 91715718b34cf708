// Package vec provides the 2D vector used for denizen kinematics.
package vec

import "gonum.org/v1/gonum/spatial/r2"

// Vec2 is a 2D vector. Methods return new values except AddMut.
type Vec2 struct {
	X, Y float64
}

// New returns the vector (x, y).
func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2(r2.Add(r2.Vec(v), r2.Vec(o)))
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o)))
}

// Scale returns v scaled by k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2(r2.Scale(k, r2.Vec(v)))
}

// Magnitude returns the Euclidean length of v.
func (v Vec2) Magnitude() float64 {
	return r2.Norm(r2.Vec(v))
}

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return r2.Norm(r2.Sub(r2.Vec(v), r2.Vec(o)))
}

// AddMut adds o to v in place. Used on the position hot path.
func (v *Vec2) AddMut(o Vec2) {
	v.X += o.X
	v.Y += o.Y
}
