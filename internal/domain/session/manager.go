package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"lvlhub-server-go/internal/domain/eventbus"
	"lvlhub-server-go/internal/domain/session/model"
	"lvlhub-server-go/internal/domain/session/store"
)

type (
	// Session re-exports the shared session entity for callers.
	Session = model.Session
	// Logger re-exports the logging interface used across the domain.
	Logger = model.Logger
)

const (
	defaultSessionTTL      = time.Hour
	defaultCleanupInterval = 10 * time.Minute
	minCleanupInterval     = 30 * time.Second
	issueRetries           = 2
)

// Options encapsulates the dependencies required to construct a Manager.
type Options struct {
	Store           store.Store
	Logger          Logger
	Codec           Codec
	Bus             *eventbus.Bus
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Manager coordinates session issuance, validation and replacement. It keeps
// no lock of its own; concurrency control lives in the store so validations
// of unrelated tokens never serialize.
type Manager struct {
	store  store.Store
	logger Logger
	codec  Codec
	bus    *eventbus.Bus
	ttl    time.Duration

	cleanupInterval time.Duration
	cleanupStop     chan struct{}
	cleanupOnce     sync.Once
}

// Issued pairs the outward token with the session it denotes.
type Issued struct {
	Token   string
	Session model.Session
}

// NewManager wires a Manager using the supplied options.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.New("session manager requires a store")
	}
	if opts.Logger == nil {
		return nil, errors.New("session manager requires a logger")
	}
	if opts.Codec == nil {
		opts.Codec = opaqueCodec{}
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	cleanupInterval := opts.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	} else if cleanupInterval < minCleanupInterval {
		opts.Logger.Warn(
			"cleanup interval too small, adjusting to %s",
			minCleanupInterval,
		)
		cleanupInterval = minCleanupInterval
	}
	mgr := &Manager{
		store:           opts.Store,
		logger:          opts.Logger,
		codec:           opts.Codec,
		bus:             opts.Bus,
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		cleanupStop:     make(chan struct{}),
	}

	go mgr.runCleanup()
	return mgr, nil
}

func (m *Manager) runCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.store.CleanupExpired(context.Background()); err != nil {
				m.logger.Warn("session store cleanup failed: %v", err)
			}
		case <-m.cleanupStop:
			return
		}
	}
}

// Issue creates a fresh session for the identity and returns its outward
// token. The caller is responsible for having verified the identity first.
func (m *Manager) Issue(ctx context.Context, userID string) (Issued, error) {
	if userID == "" {
		return Issued{}, errors.New("user id must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return Issued{}, err
	}

	// Token collisions are astronomically unlikely at 256 bits, but the
	// store reports them, so retry rather than fail the caller.
	var lastErr error
	for attempt := 0; attempt < issueRetries; attempt++ {
		id, err := NewTokenID()
		if err != nil {
			return Issued{}, err
		}
		now := time.Now()
		sess := model.Session{
			Token:     id,
			UserID:    userID,
			IssuedAt:  now,
			ExpiresAt: now.Add(m.ttl),
		}
		if err := m.store.Insert(ctx, sess); err != nil {
			if errors.Is(err, store.ErrTokenExists) {
				lastErr = err
				continue
			}
			m.logger.Error("failed to persist session for %s: %v", userID, err)
			return Issued{}, err
		}

		token, err := m.codec.Encode(id)
		if err != nil {
			return Issued{}, err
		}
		m.logger.Debug("issued session for %s", userID)
		m.publish(eventbus.EventSessionIssued, sess)
		return Issued{Token: token, Session: sess}, nil
	}
	return Issued{}, lastErr
}

// Validate resolves the token to a live session. Revoked and expired
// sessions report their state; unknown or undecodable tokens report
// ErrSessionNotFound.
func (m *Manager) Validate(ctx context.Context, token string) (model.Session, error) {
	if err := ctx.Err(); err != nil {
		return model.Session{}, err
	}
	id, err := m.codec.Decode(token)
	if err != nil {
		return model.Session{}, ErrSessionNotFound
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return model.Session{}, err
	}
	if sess.Revoked {
		return model.Session{}, ErrSessionRevoked
	}
	if sess.Expired(time.Now()) {
		m.publish(eventbus.EventSessionExpired, sess)
		return model.Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Refresh atomically replaces a live session with a fresh one bound to the
// same identity. Of two concurrent refreshes of the same token exactly one
// wins; the other observes the revoked state.
func (m *Manager) Refresh(ctx context.Context, token string) (Issued, error) {
	if err := ctx.Err(); err != nil {
		return Issued{}, err
	}
	oldID, err := m.codec.Decode(token)
	if err != nil {
		return Issued{}, ErrSessionNotFound
	}

	current, err := m.store.Get(ctx, oldID)
	if err != nil {
		return Issued{}, err
	}

	newID, err := NewTokenID()
	if err != nil {
		return Issued{}, err
	}
	now := time.Now()
	next := model.Session{
		Token:     newID,
		UserID:    current.UserID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Swap(ctx, oldID, next); err != nil {
		return Issued{}, err
	}

	outward, err := m.codec.Encode(newID)
	if err != nil {
		return Issued{}, err
	}
	m.logger.Debug("refreshed session for %s", next.UserID)
	m.publish(eventbus.EventSessionRefreshed, next)
	return Issued{Token: outward, Session: next}, nil
}

// Revoke invalidates the session. Revoking an already revoked session is a
// no-op; unknown tokens report ErrSessionNotFound.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := m.codec.Decode(token)
	if err != nil {
		return ErrSessionNotFound
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.Revoke(ctx, id); err != nil {
		return err
	}
	m.logger.Info("revoked session for %s", sess.UserID)
	m.publish(eventbus.EventSessionRevoked, sess)
	return nil
}

// Stats returns debug information from the store backend.
func (m *Manager) Stats(ctx context.Context) (map[string]any, error) {
	return m.store.Stats(ctx)
}

// Close releases underlying resources.
func (m *Manager) Close() error {
	m.cleanupOnce.Do(func() {
		close(m.cleanupStop)
	})

	if err := m.store.Close(context.Background()); err != nil {
		m.logger.Error("failed closing session store: %v", err)
		return err
	}
	return nil
}

func (m *Manager) publish(topic string, sess model.Session) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(topic, eventbus.SessionEventData{
		UserID:    sess.UserID,
		IssuedAt:  sess.IssuedAt,
		ExpiresAt: sess.ExpiresAt,
	})
}
