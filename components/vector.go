package components

import "math"

// Vector2 is a 2D float vector used for positions, velocities and accelerations.
type Vector2 struct {
	X, Y float32
}

// Vec returns the vector (x, y).
func Vec(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at angle theta (radians).
func FromAngle(theta float32) Vector2 {
	return Vector2{
		X: float32(math.Cos(float64(theta))),
		Y: float32(math.Sin(float64(theta))),
	}
}

// AddAssign adds o to v in place.
func (v *Vector2) AddAssign(o Vector2) {
	v.X += o.X
	v.Y += o.Y
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vector2) Scale(s float32) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// MagSq returns the squared magnitude.
func (v Vector2) MagSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Mag returns the magnitude.
func (v Vector2) Mag() float32 {
	return float32(math.Sqrt(float64(v.MagSq())))
}

// Limit clamps the magnitude of v to max, keeping its direction.
func (v *Vector2) Limit(max float32) {
	magSq := v.MagSq()
	if magSq > max*max {
		scale := max / float32(math.Sqrt(float64(magSq)))
		v.X *= scale
		v.Y *= scale
	}
}

// Dist returns the distance between a and b.
func Dist(a, b Vector2) float32 {
	return float32(math.Sqrt(float64(DistSq(a, b))))
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vector2) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// DistSq64 returns the squared distance between a and b in float64.
// Points that differ only in their last float32 bits stay distinct.
func DistSq64(a, b Vector2) float64 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	return dx*dx + dy*dy
}
