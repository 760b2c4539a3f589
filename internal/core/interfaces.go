package core

import (
	"context"
	"time"

	"jamroom/internal/domain"
)

// Frame is one serialized server->client message.
type Frame []byte

type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Broadcaster fans a committed mutation out to every session subscribed to
// the room. RoomService calls it while still holding the room mutex, which
// is what makes per-room delivery order equal commit order.
type Broadcaster interface {
	Publish(roomID domain.RoomID, event any)
}

// AdminView is the full room record, returned only after the guard has
// accepted the claimed token.
type AdminView struct {
	RoomID       domain.RoomID `json:"room"`
	HostName     string        `json:"host_name"`
	AdminToken   string        `json:"admin_token"`
	Current      *domain.Song  `json:"current"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	Playing      bool          `json:"playing"`
	FromFallback bool          `json:"from_fallback"`
	Queue        []domain.Song `json:"queue"`
	Fallback     []domain.Song `json:"fallback"`
	FallbackIdx  int           `json:"fallback_cursor"`
	CreatedAt    time.Time     `json:"created_at"`
}

// RoomService is the only way room state mutates after creation. Guest
// operations take no token; admin operations return ErrForbidden on a
// token mismatch and commit nothing.
type RoomService interface {
	ID() domain.RoomID
	CreatedAt() time.Time
	LastActive() time.Time

	Snapshot() RoomStateEvent
	AdminSnapshot(token string) (AdminView, error)

	Enqueue(song domain.Song) domain.Song

	RemoveFromQueue(token string, id domain.EntryID) error
	ReorderQueue(token string, order []domain.EntryID) error
	AddToFallback(token string, song domain.Song) error
	RemoveFromFallback(token string, id domain.EntryID) error
	ReorderFallback(token string, order []domain.EntryID) error
	SetCurrent(token string, song domain.Song) error
	TogglePlay(token string, playing bool) error
	Advance(token string) error
}

// SearchProvider is the external lookup collaborator. Pure and idempotent;
// its failures never touch room state.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type SearchResult struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
	Duration  string `json:"duration"`
	Views     string `json:"views"`
}
