package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lvlhub-server-go/internal/domain/session/store"
	platformtesting "lvlhub-server-go/internal/platform/testing"
)

func setupManager(t *testing.T, opts Options) *Manager {
	t.Helper()

	if opts.Store == nil {
		opts.Store = store.NewMemory(store.Config{Grace: time.Minute})
	}
	if opts.Logger == nil {
		logger := platformtesting.SetupTestLogger(t)
		t.Cleanup(func() {
			_ = logger.Close()
		})
		opts.Logger = logger
	}
	mgr, err := NewManager(opts)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		_ = mgr.Close()
	})
	return mgr
}

func TestManagerRequiresStoreAndLogger(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	defer logger.Close()

	if _, err := NewManager(Options{Logger: logger}); err == nil {
		t.Fatalf("expected error without store")
	}
	if _, err := NewManager(Options{Store: store.NewMemory(store.Config{})}); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{TTL: time.Hour})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if issued.Session.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", issued.Session)
	}

	sess, err := mgr.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if sess.UserID != "user-1" {
		t.Fatalf("unexpected identity binding: %+v", sess)
	}
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{})

	first, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("two issuances produced the same token")
	}

	// Both remain independently valid.
	if _, err := mgr.Validate(ctx, first.Token); err != nil {
		t.Fatalf("Validate first: %v", err)
	}
	if _, err := mgr.Validate(ctx, second.Token); err != nil {
		t.Fatalf("Validate second: %v", err)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{})

	if _, err := mgr.Validate(ctx, "no-such-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := mgr.Validate(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty token, got %v", err)
	}
}

func TestValidateExpiredSession(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{TTL: 10 * time.Millisecond})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := mgr.Validate(ctx, issued.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestRevokeAndValidate(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := mgr.Revoke(ctx, issued.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	// Revocation is idempotent.
	if err := mgr.Revoke(ctx, issued.Token); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if _, err := mgr.Validate(ctx, issued.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}

	if err := mgr.Revoke(ctx, "no-such-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRefreshReplacesSession(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	refreshed, err := mgr.Refresh(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.Token == issued.Token {
		t.Fatalf("refresh returned the same token")
	}
	if refreshed.Session.UserID != "user-1" {
		t.Fatalf("refresh changed the identity binding: %+v", refreshed.Session)
	}

	if _, err := mgr.Validate(ctx, issued.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("old token should be revoked, got %v", err)
	}
	if _, err := mgr.Validate(ctx, refreshed.Token); err != nil {
		t.Fatalf("new token should validate: %v", err)
	}
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	ctx := context.Background()
	mgr := setupManager(t, Options{})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	tokens := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := mgr.Refresh(ctx, issued.Token)
			results[i] = err
			tokens[i] = got.Token
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		switch {
		case err == nil:
			winners++
			if _, err := mgr.Validate(ctx, tokens[i]); err != nil {
				t.Fatalf("winning token should validate: %v", err)
			}
		case errors.Is(err, ErrSessionRevoked):
		default:
			t.Fatalf("unexpected refresh result: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning refresh, got %d", winners)
	}
}

func TestJWTCodecRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec, err := NewCodec(CodecHS256, "unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	mgr := setupManager(t, Options{Codec: codec})

	issued, err := mgr.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(issued.Token, ".") != 2 {
		t.Fatalf("expected a JWT-shaped token, got %q", issued.Token)
	}

	sess, err := mgr.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if sess.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	// Tampered signatures decode to nothing, not to a different session.
	tampered := issued.Token[:len(issued.Token)-2] + "xx"
	if _, err := mgr.Validate(ctx, tampered); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for tampered token, got %v", err)
	}
}

func TestValidateHonorsContextCancellation(t *testing.T) {
	mgr := setupManager(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mgr.Validate(ctx, "anything"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
