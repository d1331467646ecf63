// Package camera provides the 2D viewport transform for the window host.
package camera

// Camera maps a bounded world onto the window.
// The default view fits the whole world; zoom and pan are clamped so the
// view center never leaves the world.
type Camera struct {
	// View center, world units
	X, Y float32

	// Zoom level in screen pixels per world unit
	Zoom float32

	// Window size in pixels
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// maxZoomFactor bounds zoom relative to the fitted view.
const maxZoomFactor = 8

// New creates a camera showing the whole world.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{WorldW: worldW, WorldH: worldH}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// FitZoom returns the zoom at which the whole world fits the viewport.
func (c *Camera) FitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen maps a world point to window pixels.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld maps window pixels back to a world point.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScaleToScreen converts a world length to screen pixels.
func (c *Camera) ScaleToScreen(length float32) float32 {
	return length * c.Zoom
}

// IsVisible reports whether a circle at (wx, wy) may overlap the view.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize adopts a new window size and refits the zoom bounds.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.FitZoom()
	c.MaxZoom = c.MinZoom * maxZoomFactor
	c.Zoom = clamp(c.Zoom, c.MinZoom, c.MaxZoom)
}

// Pan shifts the view by a pixel delta, keeping the center in the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH)
}

// SetZoom sets the zoom within [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy scales the zoom around the view center.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under the screen
// position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X = clamp(c.X+wx-nx, 0, c.WorldW)
	c.Y = clamp(c.Y+wy-ny, 0, c.WorldH)
}

// Reset returns the camera to the fitted, centered view.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.FitZoom()
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
