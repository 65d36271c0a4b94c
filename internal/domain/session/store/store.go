package store

import (
	"context"
	"errors"
	"time"

	"lvlhub-server-go/internal/domain/session/model"
)

// Lookup and transition failures shared by all drivers. The manager re-exports
// these under caller-facing names.
var (
	ErrNotFound    = errors.New("session not found")
	ErrExpired     = errors.New("session expired")
	ErrRevoked     = errors.New("session revoked")
	ErrTokenExists = errors.New("session token already exists")
)

// Store holds session records keyed by token. Implementations must be safe
// for concurrent use and must never serialize reads of unrelated tokens
// behind a single lock.
type Store interface {
	// Insert adds a new session; the token must not already exist.
	Insert(ctx context.Context, s model.Session) error

	// Get returns the record for the token, including revoked and expired
	// records still inside the grace retention window. ErrNotFound otherwise.
	Get(ctx context.Context, token string) (model.Session, error)

	// Revoke marks the session revoked. Idempotent; unknown tokens return
	// ErrNotFound.
	Revoke(ctx context.Context, token string) error

	// Swap atomically revokes oldToken and inserts next. The old session
	// must be live: ErrNotFound, ErrExpired or ErrRevoked report its state
	// otherwise. There is no window in which both tokens are valid.
	Swap(ctx context.Context, oldToken string, next model.Session) error

	// CleanupExpired drops records past expiry plus the grace window.
	CleanupExpired(ctx context.Context) error

	Stats(ctx context.Context) (map[string]any, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	Grace  time.Duration
	Memory *MemoryConfig
	Redis  *RedisConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	Shards int
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
