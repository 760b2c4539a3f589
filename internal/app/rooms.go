package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"jamroom/internal/core"
	"jamroom/internal/domain"
)

// RoomManager is the process-wide room store. Rooms are created on request
// and by default live until the process exits; an idle sweep can be enabled
// through config for deployments that want eviction.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
	bc    core.Broadcaster
}

func NewRoomManager(bc core.Broadcaster) *RoomManager {
	return &RoomManager{
		rooms: make(map[domain.RoomID]core.RoomService),
		bc:    bc,
	}
}

// Create mints a fresh room with an unguessable id and admin token, and
// returns the token alongside the service: this is the only moment the
// token leaves the store. The uuid space makes a collision with a live
// room negligible; the loop is here so the store does not depend on that
// assumption.
func (m *RoomManager) Create(hostName string) (core.RoomService, string) {
	if len(hostName) > domain.MaxHostNameLen {
		hostName = hostName[:domain.MaxHostNameLen]
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var id domain.RoomID
	for {
		id = domain.RoomID(uuid.NewString())
		if _, taken := m.rooms[id]; !taken {
			break
		}
	}
	token := uuid.NewString()
	room := &domain.Room{
		ID:         id,
		HostName:   hostName,
		AdminToken: token,
		CreatedAt:  time.Now().UTC(),
	}
	svc := core.NewRoomService(room, m.bc)
	m.rooms[id] = svc
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("host", hostName).Msg("room created")
	return svc, token
}

func (m *RoomManager) Get(id domain.RoomID) (core.RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	svc, ok := m.rooms[id]
	return svc, ok
}

func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Sweep evicts rooms idle longer than maxIdle and reports how many went.
func (m *RoomManager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, svc := range m.rooms {
		if svc.LastActive().Before(cutoff) {
			delete(m.rooms, id)
			n++
		}
	}
	if n > 0 {
		log.Info().Str("module", "app.rooms").Int("evicted", n).Msg("swept idle rooms")
	}
	return n
}

// StartSweeper runs Sweep on a ticker until ctx is done. Callers only start
// it when a ttl is configured.
func (m *RoomManager) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ttl)
		}
	}
}
