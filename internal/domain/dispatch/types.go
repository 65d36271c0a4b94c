package dispatch

import (
	"context"

	identitymodel "lvlhub-server-go/internal/domain/identity/model"
)

// Request is the transient envelope submitted against a session.
type Request struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// Result carries a handler's payload back to the caller together with the
// correlation id assigned to the invocation.
type Result struct {
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Payload   any    `json:"payload"`
}

// Handler processes one request type on behalf of an authenticated identity.
// Implementations must honour ctx and must not retain the identity beyond
// the call.
type Handler interface {
	Handle(ctx context.Context, ident identitymodel.Identity, params map[string]any) (any, error)
}

// HandlerFunc adapts a bare function to the Handler interface.
type HandlerFunc func(ctx context.Context, ident identitymodel.Identity, params map[string]any) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, ident identitymodel.Identity, params map[string]any) (any, error) {
	return f(ctx, ident, params)
}

// Logger provides the minimal logging contract required by the dispatch domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
