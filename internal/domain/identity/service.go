package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lvlhub-server-go/internal/domain/identity/model"
	"lvlhub-server-go/internal/domain/identity/store"

	"github.com/google/uuid"
)

// ErrAlreadyRegistered is returned when the username is taken.
var ErrAlreadyRegistered = errors.New("username already registered")

// Service owns profile registration and identity lookups for the dispatcher.
type Service struct {
	store  store.Store
	logger Logger
}

func NewService(st store.Store, logger Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New("identity service requires a store")
	}
	if logger == nil {
		return nil, errors.New("identity service requires a logger")
	}
	return &Service{store: st, logger: logger}, nil
}

// RegisterParams captures everything needed to create a profile.
type RegisterParams struct {
	UserID       string
	Username     string
	Secret       string
	SuiteType    model.SuiteType
	Demographics map[string]any
	Preferences  map[string]any
}

// Register creates a new identity with a hashed credential. An empty UserID
// gets a generated one; the identifier is immutable afterwards.
func (s *Service) Register(ctx context.Context, p RegisterParams) (model.Identity, error) {
	if p.Username == "" {
		return model.Identity{}, fmt.Errorf("username required")
	}
	if !p.SuiteType.Valid() {
		return model.Identity{}, fmt.Errorf("unknown suite type: %s", p.SuiteType)
	}

	if _, err := s.store.GetByUsername(ctx, p.Username); err == nil {
		return model.Identity{}, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Identity{}, err
	}

	hash, version, err := HashSecret(p.Secret)
	if err != nil {
		return model.Identity{}, err
	}

	userID := p.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	rec := model.Record{
		Identity: model.Identity{
			UserID:       userID,
			Username:     p.Username,
			SuiteType:    p.SuiteType,
			Demographics: p.Demographics,
			Preferences:  p.Preferences,
			CreatedAt:    time.Now(),
		},
		PasswordHash: hash,
		HashVersion:  version,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		s.logger.Error("failed to register identity %s: %v", userID, err)
		return model.Identity{}, err
	}
	s.logger.Debug("registered identity: %s", userID)
	return rec.Identity, nil
}

// Get resolves a user id to its identity.
func (s *Service) Get(ctx context.Context, userID string) (model.Identity, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.Identity{}, err
	}
	return rec.Identity, nil
}

// UpdateUsagePatterns replaces the mutable usage attributes of an identity.
func (s *Service) UpdateUsagePatterns(ctx context.Context, userID string, patterns map[string]any) error {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	rec.UsagePatterns = patterns
	return s.store.Put(ctx, rec)
}

// Close releases the underlying store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}
