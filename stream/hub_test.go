package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubHelloAndFrames(t *testing.T) {
	hub := NewHub(800, 600)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dialHub(t, srv)

	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading hello: %v", err)
	}
	if hello.Type != TypeConfig || hello.W != 800 || hello.H != 600 {
		t.Errorf("hello = %+v, want config 800x600", hello)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}

	sent := Frame{
		Type:       TypeFrame,
		Generation: 3,
		Tick:       42,
		Rects:      []Rect{{X: 1, Y: 2, W: 3, H: 4}},
		Circles:    []Circle{{X: 5, Y: 6, R: 4, Role: "elite"}},
	}
	hub.Broadcast(&sent)

	var got Frame
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if got.Type != TypeFrame || got.Generation != 3 || got.Tick != 42 {
		t.Errorf("frame header = %+v", got)
	}
	if len(got.Rects) != 1 || got.Rects[0] != sent.Rects[0] {
		t.Errorf("rects = %v, want %v", got.Rects, sent.Rects)
	}
	if len(got.Circles) != 1 || got.Circles[0] != sent.Circles[0] {
		t.Errorf("circles = %v, want %v", got.Circles, sent.Circles)
	}
}

func TestHubQueuesCommands(t *testing.T) {
	hub := NewHub(800, 800)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dialHub(t, srv)
	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}

	msgs := []string{
		`{"type":"pause"}`,
		`{"type":"teleport"}`,
		`{"type":"speed","value":7}`,
		`{"type":"resume"}`,
	}
	for _, m := range msgs {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatalf("writing %s: %v", m, err)
		}
	}

	want := []Command{{Type: CommandPause}, {Type: CommandSpeed, Value: 7}, {Type: CommandResume}}
	for i, w := range want {
		select {
		case got := <-hub.Commands():
			if got != w {
				t.Errorf("command %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for command %d", i)
		}
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(800, 800)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dialHub(t, srv)
	b := dialHub(t, srv)
	for _, c := range []*websocket.Conn{a, b} {
		var hello Hello
		if err := c.ReadJSON(&hello); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, "two clients", func() bool { return hub.ClientCount() == 2 })

	a.Close()
	waitFor(t, "closed client to drop", func() bool {
		hub.Broadcast(Frame{Type: TypeFrame})
		return hub.ClientCount() == 1
	})

	hub.Close()
	if hub.ClientCount() != 0 {
		t.Errorf("client count after close = %d", hub.ClientCount())
	}
}

type fakeController struct {
	paused bool
	speed  int
}

func (f *fakeController) SetPaused(p bool) { f.paused = p }
func (f *fakeController) SetSpeed(n int)   { f.speed = n }

func TestCommandApply(t *testing.T) {
	ctrl := &fakeController{speed: 1}

	Command{Type: CommandPause}.Apply(ctrl)
	if !ctrl.paused {
		t.Error("pause did not pause")
	}
	Command{Type: CommandSpeed, Value: 12}.Apply(ctrl)
	if ctrl.speed != 12 {
		t.Errorf("speed = %d, want 12", ctrl.speed)
	}
	Command{Type: CommandResume}.Apply(ctrl)
	if ctrl.paused {
		t.Error("resume did not resume")
	}
	Command{Type: "bogus", Value: 99}.Apply(ctrl)
	if ctrl.speed != 12 || ctrl.paused {
		t.Errorf("unknown command changed state: %+v", ctrl)
	}
}
