package identity

import (
	"context"
	"errors"
	"time"

	"lvlhub-server-go/internal/domain/eventbus"
	"lvlhub-server-go/internal/domain/identity/model"
	"lvlhub-server-go/internal/domain/identity/store"
)

type (
	// Identity re-exports the shared entity for callers.
	Identity = model.Identity
	// SuiteType re-exports the tier classification.
	SuiteType = model.SuiteType
	// Logger re-exports the logging interface used across the domain.
	Logger = model.Logger
)

// ErrInvalidCredentials covers both unknown usernames and secret mismatches.
// Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps the missing-user path as expensive as a real comparison.
// bcrypt hash of an unguessable throwaway value, cost 10.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Verifier resolves username/secret credentials to a verified identity.
type Verifier struct {
	store  store.Store
	logger Logger
	bus    *eventbus.Bus
}

// NewVerifier wires a Verifier; the bus is optional.
func NewVerifier(st store.Store, logger Logger, bus *eventbus.Bus) (*Verifier, error) {
	if st == nil {
		return nil, errors.New("verifier requires a store")
	}
	if logger == nil {
		return nil, errors.New("verifier requires a logger")
	}
	return &Verifier{
		store:  st,
		logger: logger,
		bus:    bus,
	}, nil
}

// Verify checks the credential against the identity backend. On failure the
// returned error never reveals whether the username exists.
func (v *Verifier) Verify(ctx context.Context, username, secret string) (model.Identity, error) {
	if username == "" || secret == "" {
		return model.Identity{}, ErrInvalidCredentials
	}
	if err := ctx.Err(); err != nil {
		return model.Identity{}, err
	}

	rec, err := v.store.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Burn a comparison so response timing matches the mismatch path.
		_ = VerifySecret(dummyHash, secret)
		v.reportFailure(username, "unknown user")
		return model.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		v.logger.Error("identity lookup failed: %v", err)
		return model.Identity{}, err
	}

	if err := VerifySecret(rec.PasswordHash, secret); err != nil {
		v.reportFailure(username, "secret mismatch")
		return model.Identity{}, ErrInvalidCredentials
	}

	if v.bus != nil {
		v.bus.PublishAsync(eventbus.EventAuthSucceeded, eventbus.AuthEventData{
			Username: username,
			At:       time.Now(),
		})
	}
	return rec.Identity, nil
}

// reportFailure feeds the lockout extension point. The reason stays internal;
// the caller-facing error is always ErrInvalidCredentials.
func (v *Verifier) reportFailure(username, reason string) {
	v.logger.Debug("authentication rejected for %s", username)
	if v.bus != nil {
		v.bus.PublishAsync(eventbus.EventAuthFailed, eventbus.AuthEventData{
			Username: username,
			Reason:   reason,
			At:       time.Now(),
		})
	}
}
