package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"jamroom/internal/core"
	"jamroom/internal/domain"
)

// Hub maps each live session to at most one subscribed room and fans room
// events out to everyone watching it. Delivery is fire-and-forget: a
// session that cannot keep up loses frames, a reconnecting client re-joins
// and gets the snapshot.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]map[core.SessionID]core.SignalConnection
	bySess map[core.SessionID]domain.RoomID
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[domain.RoomID]map[core.SessionID]core.SignalConnection),
		bySess: make(map[core.SessionID]domain.RoomID),
	}
}

// Subscribe attaches a session to a room's broadcast group. A session
// follows one room at a time; joining another room moves it.
func (h *Hub) Subscribe(roomID domain.RoomID, sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(sid)
	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[core.SessionID]core.SignalConnection)
		h.rooms[roomID] = group
	}
	group[sid] = conn
	h.bySess[sid] = roomID
	log.Debug().Str("module", "app.hub").Str("sid", string(sid)).Str("room", string(roomID)).Msg("subscribed")
}

func (h *Hub) Unsubscribe(sid core.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(sid)
}

func (h *Hub) detachLocked(sid core.SessionID) {
	roomID, ok := h.bySess[sid]
	if !ok {
		return
	}
	delete(h.bySess, sid)
	if group, ok := h.rooms[roomID]; ok {
		delete(group, sid)
		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Subscribers(roomID domain.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Publish serializes the event once and hands the bytes to every subscriber
// of the room. Publishers call this in commit order; subscribers see the
// same order because each connection's send queue is FIFO.
func (h *Hub) Publish(roomID domain.RoomID, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Msg("event marshal")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sid, conn := range h.rooms[roomID] {
		if err := conn.TrySend(data); err != nil {
			log.Debug().Str("module", "app.hub").Str("sid", string(sid)).Err(err).Msg("dropped frame")
		}
	}
}
