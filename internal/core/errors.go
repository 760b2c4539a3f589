package core

import "errors"

// Shared failure taxonomy. Transport adapters decide how much of this the
// caller gets to see: the HTTP API maps these to status codes, the socket
// gateway drops denied mutations without a reply.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrForbidden           = errors.New("admin token mismatch")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoResults           = errors.New("no results")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
