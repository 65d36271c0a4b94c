package session

import "lvlhub-server-go/internal/domain/session/store"

// Validation failures surfaced to callers. These alias the store sentinels
// so errors.Is works across both layers.
var (
	ErrSessionNotFound = store.ErrNotFound
	ErrSessionExpired  = store.ErrExpired
	ErrSessionRevoked  = store.ErrRevoked
)
