package stream

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/game"
)

func TestFrameSinkCapture(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Size = 10
	p := game.Setup(cfg, rand.New(rand.NewSource(1)))
	defer p.Close()

	var sink FrameSink
	f := sink.Capture(p, 17)

	if f.Type != TypeFrame || f.Generation != 0 || f.Tick != 17 {
		t.Errorf("frame header = %s/%d/%d", f.Type, f.Generation, f.Tick)
	}
	if len(f.Rects) != 11 {
		t.Errorf("rects = %d, want 11", len(f.Rects))
	}
	if len(f.Circles) != 11 {
		t.Fatalf("circles = %d, want 10 dots + target", len(f.Circles))
	}

	target := f.Circles[len(f.Circles)-1]
	if target.Role != "target" || target.X != 400 || target.Y != 50 || target.R != 8 {
		t.Errorf("target = %+v", target)
	}
	for _, c := range f.Circles[:10] {
		if c.Role != "ordinary" || c.X != 400 || c.Y != 750 {
			t.Errorf("dot = %+v, want ordinary at spawn", c)
		}
	}

	// First course rectangle, top-left plus size
	if r := f.Rects[0]; r != (Rect{X: 150, Y: 225, W: 500, H: 50}) {
		t.Errorf("rect 0 = %+v", r)
	}

	// Buffers are reused
	f2 := sink.Capture(p, 18)
	if len(f2.Rects) != 11 || len(f2.Circles) != 11 || f2.Tick != 18 {
		t.Errorf("second capture = %d rects, %d circles, tick %d", len(f2.Rects), len(f2.Circles), f2.Tick)
	}
}
