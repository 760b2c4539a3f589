// Package domain contains entity without logic, just meta-data
package domain

import "time"

const MaxHostNameLen = 36

type RoomID string

// Room is a single shared playback session. AdminToken is set once at
// creation and never changes; it must not appear in guest-facing views.
type Room struct {
	ID         RoomID
	HostName   string
	AdminToken string

	Queue       []Song
	Fallback    []Song
	FallbackIdx int

	Current      *Song
	StartedAt    time.Time
	Playing      bool
	FromFallback bool

	CreatedAt time.Time
}
