package components

// Obstacle is an immutable axis-aligned rectangle.
// Containment is half-open: Min is inside, Max is outside.
type Obstacle struct {
	Min, Max Vector2
}

// NewObstacle builds an obstacle from its center and size.
func NewObstacle(center, size Vector2) Obstacle {
	half := size.Scale(0.5)
	return Obstacle{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// ObstacleFromBounds builds an obstacle from its top-left corner and size.
func ObstacleFromBounds(left, top, w, h float32) Obstacle {
	return Obstacle{
		Min: Vector2{X: left, Y: top},
		Max: Vector2{X: left + w, Y: top + h},
	}
}

// Contains reports whether p lies inside the rectangle.
func (o Obstacle) Contains(p Vector2) bool {
	return p.X >= o.Min.X && p.X < o.Max.X && p.Y >= o.Min.Y && p.Y < o.Max.Y
}

// Size returns the width and height.
func (o Obstacle) Size() Vector2 {
	return o.Max.Sub(o.Min)
}

// Center returns the midpoint of the rectangle.
func (o Obstacle) Center() Vector2 {
	return o.Min.Add(o.Max).Scale(0.5)
}
