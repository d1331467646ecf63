// Package stream broadcasts rendered frames to websocket clients and
// queues the control commands they send back.
package stream

import (
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/game"
)

// Message types.
const (
	TypeConfig = "config"
	TypeFrame  = "frame"
)

// Hello is the first message a client receives.
type Hello struct {
	Type string `json:"type"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

// Rect is an obstacle in world coordinates, top-left plus size.
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Circle is a dot or the target.
type Circle struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	R    float32 `json:"r"`
	Role string  `json:"role"`
}

// Frame is one rendered population, in draw order.
type Frame struct {
	Type       string   `json:"type"`
	Generation int      `json:"generation"`
	Tick       int64    `json:"tick"`
	Rects      []Rect   `json:"rects"`
	Circles    []Circle `json:"circles"`
}

// FrameSink is a game.Sink that records draw calls into a Frame.
// Buffers are reused between frames.
type FrameSink struct {
	frame Frame
}

var _ game.Sink = (*FrameSink)(nil)

// Reset starts a new frame for generation at tick.
func (s *FrameSink) Reset(generation int, tick int64) {
	s.frame.Type = TypeFrame
	s.frame.Generation = generation
	s.frame.Tick = tick
	s.frame.Rects = s.frame.Rects[:0]
	s.frame.Circles = s.frame.Circles[:0]
}

// DrawRectangle records an obstacle.
func (s *FrameSink) DrawRectangle(o components.Obstacle) {
	size := o.Size()
	s.frame.Rects = append(s.frame.Rects, Rect{X: o.Min.X, Y: o.Min.Y, W: size.X, H: size.Y})
}

// DrawCircle records a dot or the target.
func (s *FrameSink) DrawCircle(c game.Circle) {
	s.frame.Circles = append(s.frame.Circles, Circle{
		X:    c.Center.X,
		Y:    c.Center.Y,
		R:    c.Radius,
		Role: c.Role.String(),
	})
}

// Frame returns the recorded frame. It is valid until the next Reset.
func (s *FrameSink) Frame() *Frame {
	return &s.frame
}

// Capture renders p into a fresh frame and returns it.
func (s *FrameSink) Capture(p *game.Population, tick int64) *Frame {
	s.Reset(p.Generation(), tick)
	p.Render(s)
	return s.Frame()
}
