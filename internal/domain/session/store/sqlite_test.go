package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lvlhub-server-go/internal/platform/storage"
)

func newSQLiteTestStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	store, err := NewSQLite(db, Config{Grace: time.Minute})
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})
	return store
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	sess := liveSession("sqlite-lifecycle", "user-1", time.Hour)
	if err := store.Insert(ctx, sess); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := store.Insert(ctx, sess); !errors.Is(err, ErrTokenExists) {
		t.Fatalf("expected ErrTokenExists, got %v", err)
	}

	got, err := store.Get(ctx, "sqlite-lifecycle")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != "user-1" || got.Revoked {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Revoke(ctx, "sqlite-lifecycle"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if err := store.Revoke(ctx, "sqlite-lifecycle"); err != nil {
		t.Fatalf("second Revoke error: %v", err)
	}
	got, err = store.Get(ctx, "sqlite-lifecycle")
	if err != nil {
		t.Fatalf("Get after revoke error: %v", err)
	}
	if !got.Revoked {
		t.Fatalf("expected revoked session, got %+v", got)
	}

	if _, err := store.Get(ctx, "sqlite-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreSwap(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	if err := store.Insert(ctx, liveSession("sqlite-old", "user-2", time.Hour)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := store.Swap(ctx, "sqlite-old", liveSession("sqlite-new", "user-2", time.Hour)); err != nil {
		t.Fatalf("Swap error: %v", err)
	}

	oldSess, err := store.Get(ctx, "sqlite-old")
	if err != nil {
		t.Fatalf("Get old error: %v", err)
	}
	if !oldSess.Revoked {
		t.Fatalf("old token should be revoked after swap")
	}
	if _, err := store.Get(ctx, "sqlite-new"); err != nil {
		t.Fatalf("Get new error: %v", err)
	}

	if err := store.Swap(ctx, "sqlite-old", liveSession("sqlite-third", "user-2", time.Hour)); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestSQLiteStoreCleanupExpired(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	if err := store.Insert(ctx, liveSession("sqlite-live", "user-3", time.Hour)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := store.Insert(ctx, liveSession("sqlite-dead", "user-3", -2*time.Minute)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if err := store.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired error: %v", err)
	}
	if _, err := store.Get(ctx, "sqlite-dead"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session collected, got %v", err)
	}
	if _, err := store.Get(ctx, "sqlite-live"); err != nil {
		t.Fatalf("live session should survive cleanup: %v", err)
	}
}
