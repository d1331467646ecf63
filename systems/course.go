package systems

import "github.com/pthm-cable/dots/components"

// courseRect is one course rectangle: size then center, in whole world units.
type courseRect struct {
	w, h, x, y int
}

// Course returns the fixed eleven-rectangle obstacle layout for a width x height world.
// Offsets scale with the world size; extents are halved with integer division
// so the layout matches the classic 800x800 course exactly.
func Course(width, height int) []components.Obstacle {
	rects := []courseRect{
		{500, 50, width / 2, height/2 - 150},
		{300, 50, 150, height/2 + 140},
		{300, 50, width - 150, height/2 + 140},
		{50, 75, 300 - 25, height/2 + 85},
		{50, 75, width - 300 + 25, height/2 + 85},
		{50, 100, width/2 - 550/2 + 50, height/2 - 75},
		{50, 100, width/2 + 550/2 - 50, height/2 - 75},
		{250, 50, 125, height/2 - 300},
		{250, 50, width - 125, height/2 - 300},
		{100, 25, width / 2, 100},
		{250, 40, width / 2, height/2 + 260},
	}

	obstacles := make([]components.Obstacle, len(rects))
	for i, r := range rects {
		obstacles[i] = components.ObstacleFromBounds(
			float32(r.x-r.w/2), float32(r.y-r.h/2),
			float32(r.w), float32(r.h),
		)
	}
	return obstacles
}
