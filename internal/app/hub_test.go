package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"jamroom/internal/core"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) received() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

func TestPublishReachesAllRoomSubscribers(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	other := &fakeConn{}
	h.Subscribe("room-1", "sid-a", a)
	h.Subscribe("room-1", "sid-b", b)
	h.Subscribe("room-2", "sid-c", other)

	h.Publish("room-1", core.PlayStateEvent{Type: core.TypePlayState, Playing: true})

	for name, conn := range map[string]*fakeConn{"a": a, "b": b} {
		frames := conn.received()
		if len(frames) != 1 {
			t.Fatalf("subscriber %s got %d frames, want 1", name, len(frames))
		}
		var ev core.PlayStateEvent
		if err := json.Unmarshal(frames[0], &ev); err != nil {
			t.Fatalf("subscriber %s frame: %v", name, err)
		}
		if ev.Type != core.TypePlayState || !ev.Playing {
			t.Fatalf("subscriber %s got %+v", name, ev)
		}
	}
	if len(other.received()) != 0 {
		t.Fatalf("event leaked into another room")
	}
}

func TestPublishPreservesPerRoomOrder(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Subscribe("room-1", "sid-a", conn)

	for i := 0; i < 10; i++ {
		h.Publish("room-1", core.FallbackCursorEvent{Type: core.TypeFallbackCursor, Cursor: i})
	}

	frames := conn.received()
	if len(frames) != 10 {
		t.Fatalf("got %d frames, want 10", len(frames))
	}
	for i, f := range frames {
		var ev core.FallbackCursorEvent
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if ev.Cursor != i {
			t.Fatalf("frame %d carries cursor %d", i, ev.Cursor)
		}
	}
}

func TestResubscribeMovesSession(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Subscribe("room-1", "sid-a", conn)
	h.Subscribe("room-2", "sid-a", conn)

	if n := h.Subscribers("room-1"); n != 0 {
		t.Fatalf("room-1 still has %d subscribers", n)
	}
	if n := h.Subscribers("room-2"); n != 1 {
		t.Fatalf("room-2 has %d subscribers, want 1", n)
	}

	h.Publish("room-1", core.PlayStateEvent{Type: core.TypePlayState})
	if len(conn.received()) != 0 {
		t.Fatalf("moved session still receives old room events")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	conn := &fakeConn{}
	h.Subscribe("room-1", "sid-a", conn)
	h.Unsubscribe("sid-a")

	h.Publish("room-1", core.PlayStateEvent{Type: core.TypePlayState})
	if len(conn.received()) != 0 {
		t.Fatalf("unsubscribed session received a frame")
	}
	// Unsubscribing twice is harmless.
	h.Unsubscribe("sid-a")
}

func TestBackpressureDoesNotBlockOthers(t *testing.T) {
	h := NewHub()
	slow := &fakeConn{full: true}
	fast := &fakeConn{}
	h.Subscribe("room-1", "sid-slow", slow)
	h.Subscribe("room-1", "sid-fast", fast)

	h.Publish("room-1", core.PlayStateEvent{Type: core.TypePlayState, Playing: true})

	if len(fast.received()) != 1 {
		t.Fatalf("healthy subscriber starved by a slow one")
	}
}
