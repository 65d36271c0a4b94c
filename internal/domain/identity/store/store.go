package store

import (
	"context"
	"errors"

	"lvlhub-server-go/internal/domain/identity/model"
)

// ErrNotFound is returned when no record matches the lookup key.
var ErrNotFound = errors.New("identity not found")

// Store defines the behaviour required by the verifier and the profile
// service. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, rec model.Record) error
	Get(ctx context.Context, userID string) (model.Record, error)
	GetByUsername(ctx context.Context, username string) (model.Record, error)
	Remove(ctx context.Context, userID string) error
	List(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	Redis  *RedisConfig
}

// RedisConfig captures connection options for the redis driver.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
