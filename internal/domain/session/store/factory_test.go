package store

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestFactoryMemory(t *testing.T) {
	store, err := New(Config{Driver: DriverMemory}, Dependencies{})
	if err != nil {
		t.Fatalf("New memory store: %v", err)
	}
	defer store.Close(context.Background())

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats["type"] != "memory" {
		t.Fatalf("unexpected store type: %v", stats["type"])
	}
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	store, err := New(Config{}, Dependencies{})
	if err != nil {
		t.Fatalf("New default store: %v", err)
	}
	defer store.Close(context.Background())
}

func TestFactorySQLiteRequiresHandle(t *testing.T) {
	if _, err := New(Config{Driver: DriverSQLite}, Dependencies{}); err == nil {
		t.Fatalf("expected error without database handle")
	}
}

func TestFactoryRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := New(Config{
		Driver: DriverRedis,
		Grace:  time.Minute,
		Redis:  &RedisConfig{Addr: mr.Addr()},
	}, Dependencies{})
	if err != nil {
		t.Fatalf("New redis store: %v", err)
	}
	defer store.Close(context.Background())
}

func TestFactoryUnknownDriver(t *testing.T) {
	if _, err := New(Config{Driver: "etcd"}, Dependencies{}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
