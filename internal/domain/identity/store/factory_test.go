package store

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lvlhub-server-go/internal/domain/identity/model"
	"lvlhub-server-go/internal/platform/storage"
)

func TestFactoryMemory(t *testing.T) {
	store, err := New(Config{Driver: DriverMemory}, Dependencies{})
	if err != nil {
		t.Fatalf("New memory store: %v", err)
	}
	defer store.Close(context.Background())
}

func TestFactorySQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	store, err := New(Config{Driver: DriverSQLite}, Dependencies{SQLiteDB: db})
	if err != nil {
		t.Fatalf("New sqlite store: %v", err)
	}
	defer store.Close(context.Background())

	rec := model.Record{
		Identity: model.Identity{
			UserID:    "factory-sqlite",
			Username:  "factory-sqlite-user",
			SuiteType: model.SuiteTech,
			Demographics: map[string]any{
				"industry": "technology",
			},
		},
		PasswordHash: "hash",
	}
	if err := store.Put(context.Background(), rec); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := store.GetByUsername(context.Background(), "factory-sqlite-user")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.Demographics["industry"] != "technology" {
		t.Fatalf("attributes did not round-trip: %+v", got.Demographics)
	}
}

func TestFactoryRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	store, err := New(Config{
		Driver: DriverRedis,
		Redis:  &RedisConfig{Addr: mr.Addr()},
	}, Dependencies{})
	if err != nil {
		t.Fatalf("New redis store: %v", err)
	}
	defer store.Close(context.Background())

	if err := store.Put(context.Background(), model.Record{
		Identity: model.Identity{UserID: "factory-redis", Username: "factory-redis-user"},
	}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
}

func TestFactoryUnsupported(t *testing.T) {
	if _, err := New(Config{Driver: "unknown"}, Dependencies{}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
