package core

import (
	"crypto/subtle"

	"jamroom/internal/domain"
)

// Authorize compares the claimed token against the room's admin token.
// Exact match only; an empty claim never matches anything.
func Authorize(room *domain.Room, token string) error {
	if token == "" {
		return ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(room.AdminToken)) != 1 {
		return ErrForbidden
	}
	return nil
}
