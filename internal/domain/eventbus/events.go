package eventbus

import "time"

// Session and authentication lifecycle topics.
const (
	EventSessionIssued    = "session:issued"
	EventSessionRefreshed = "session:refreshed"
	EventSessionRevoked   = "session:revoked"
	EventSessionExpired   = "session:expired"

	EventAuthFailed    = "auth:failed"
	EventAuthSucceeded = "auth:succeeded"

	EventDispatchHandled = "dispatch:handled"
	EventDispatchFailed  = "dispatch:failed"
)

// SessionEventData deliberately omits the token itself; subscribers get the
// identity reference and lifecycle timestamps only.
type SessionEventData struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthEventData struct {
	Username string    `json:"username"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

type DispatchEventData struct {
	RequestID   string `json:"request_id"`
	RequestType string `json:"request_type"`
	UserID      string `json:"user_id"`
	Error       string `json:"error,omitempty"`
}
