package core

import (
	"time"

	"jamroom/internal/domain"
)

// Server -> client event types. One envelope per committed mutation; the
// hub serializes each value once and fans the bytes out to the room.
const (
	TypeRoomState      = "room_state"
	TypeQueue          = "queue"
	TypeFallback       = "fallback"
	TypeFallbackCursor = "fallback_cursor"
	TypeNowPlaying     = "now_playing"
	TypePlayState      = "play_state"
)

// RoomStateEvent is the full snapshot a session receives on join. It carries
// everything a guest viewer may see; the fallback list and admin token stay
// admin-only.
type RoomStateEvent struct {
	Type         string        `json:"type"`
	RoomID       domain.RoomID `json:"room"`
	HostName     string        `json:"host_name"`
	Current      *domain.Song  `json:"current"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	Playing      bool          `json:"playing"`
	FromFallback bool          `json:"from_fallback"`
	Queue        []domain.Song `json:"queue"`
}

type QueueEvent struct {
	Type  string        `json:"type"`
	Queue []domain.Song `json:"queue"`
}

type FallbackEvent struct {
	Type     string        `json:"type"`
	Fallback []domain.Song `json:"fallback"`
}

type FallbackCursorEvent struct {
	Type   string `json:"type"`
	Cursor int    `json:"cursor"`
}

// NowPlayingEvent carries a copy of the promoted song, never a live queue
// reference: later queue edits must not change what viewers see playing.
type NowPlayingEvent struct {
	Type         string       `json:"type"`
	Current      *domain.Song `json:"current"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	Playing      bool         `json:"playing"`
	FromFallback bool         `json:"from_fallback"`
}

type PlayStateEvent struct {
	Type    string `json:"type"`
	Playing bool   `json:"playing"`
}
