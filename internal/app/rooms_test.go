package app

import (
	"testing"
	"time"

	"jamroom/internal/domain"
)

func TestCreateAndGetRoom(t *testing.T) {
	m := NewRoomManager(NewHub())

	svc, token := m.Create("dj host")
	if svc.ID() == "" || token == "" {
		t.Fatalf("empty id or token: %q %q", svc.ID(), token)
	}
	if string(svc.ID()) == token {
		t.Fatalf("room id and admin token must differ")
	}

	got, ok := m.Get(svc.ID())
	if !ok {
		t.Fatalf("created room not found")
	}
	if got.ID() != svc.ID() {
		t.Fatalf("lookup returned %s, want %s", got.ID(), svc.ID())
	}

	if _, ok := m.Get("no-such-room"); ok {
		t.Fatalf("lookup of unknown id succeeded")
	}
}

func TestCreateMintsDistinctCredentials(t *testing.T) {
	m := NewRoomManager(NewHub())
	ids := make(map[domain.RoomID]bool)
	tokens := make(map[string]bool)
	for i := 0; i < 50; i++ {
		svc, token := m.Create("host")
		if ids[svc.ID()] {
			t.Fatalf("room id %s reused", svc.ID())
		}
		if tokens[token] {
			t.Fatalf("admin token reused")
		}
		ids[svc.ID()] = true
		tokens[token] = true
	}
	if m.Count() != 50 {
		t.Fatalf("store holds %d rooms, want 50", m.Count())
	}
}

func TestAdminSnapshotRequiresMintedToken(t *testing.T) {
	m := NewRoomManager(NewHub())
	svc, token := m.Create("host")

	if _, err := svc.AdminSnapshot("guess"); err == nil {
		t.Fatalf("guessed token accepted")
	}
	view, err := svc.AdminSnapshot(token)
	if err != nil {
		t.Fatalf("minted token rejected: %v", err)
	}
	if view.AdminToken != token {
		t.Fatalf("admin view token mismatch")
	}
	if view.HostName != "host" {
		t.Fatalf("host name = %q", view.HostName)
	}
}

func TestSweepEvictsOnlyIdleRooms(t *testing.T) {
	m := NewRoomManager(NewHub())
	idle, _ := m.Create("idle host")
	active, _ := m.Create("active host")

	time.Sleep(20 * time.Millisecond)
	// A snapshot counts as activity, same as joining does.
	active.Snapshot()

	if n := m.Sweep(10 * time.Millisecond); n != 1 {
		t.Fatalf("swept %d rooms, want 1", n)
	}
	if _, ok := m.Get(idle.ID()); ok {
		t.Fatalf("idle room survived the sweep")
	}
	if _, ok := m.Get(active.ID()); !ok {
		t.Fatalf("active room was evicted")
	}
}
