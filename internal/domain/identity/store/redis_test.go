package store

import (
	"context"
	"errors"
	"testing"

	"lvlhub-server-go/internal/domain/identity/model"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedis(Config{
		Redis: &RedisConfig{Addr: mr.Addr()},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	rec := model.Record{
		Identity: model.Identity{
			UserID:    "redis-user",
			Username:  "bob",
			SuiteType: model.SuiteStudent,
		},
		PasswordHash: "hash",
	}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := store.Get(ctx, rec.UserID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("unexpected record: %+v", got)
	}

	byName, err := store.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if byName.UserID != rec.UserID {
		t.Fatalf("unexpected record by username: %+v", byName)
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 1 || ids[0] != rec.UserID {
		t.Fatalf("unexpected list: %v", ids)
	}

	if err := store.Remove(ctx, rec.UserID); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := store.Get(ctx, rec.UserID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
	if _, err := store.GetByUsername(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected username index removed, got %v", err)
	}
}
