package model

import "time"

// Session is a time-bounded, revocable authorization artifact bound to one
// identity. Token is the internal identifier the store keys by; the outward
// representation may differ when a signing codec is configured.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// Valid reports whether the session authorizes requests at the given time.
func (s Session) Valid(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Logger provides the minimal logging contract required by the session domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
