package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lvlhub-server-go/internal/domain/dispatch"
	"lvlhub-server-go/internal/domain/eventbus"
	"lvlhub-server-go/internal/domain/identity"
	identitymodel "lvlhub-server-go/internal/domain/identity/model"
	identitystore "lvlhub-server-go/internal/domain/identity/store"
	"lvlhub-server-go/internal/domain/recommend"
	"lvlhub-server-go/internal/domain/session"
	sessionstore "lvlhub-server-go/internal/domain/session/store"
	"lvlhub-server-go/internal/platform/config"
	platformerrors "lvlhub-server-go/internal/platform/errors"
	"lvlhub-server-go/internal/platform/logging"
)

// Credentials carries what a caller presents to open a session.
type Credentials struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// Options encapsulates the dependencies required to construct a Platform.
type Options struct {
	Config *config.Config
	Logger *logging.Logger
	DB     *gorm.DB
	Bus    *eventbus.Bus
}

// Platform is the composition root for session issuance and request
// dispatch. It owns the session manager and handler registry for the
// process lifetime; construction fails rather than serving a partially
// configured instance.
type Platform struct {
	cfg        *config.Config
	logger     *logging.Logger
	bus        *eventbus.Bus
	identities *identity.Service
	verifier   *identity.Verifier
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
}

// New validates the configuration and wires the full platform. Any failure
// here is startup-fatal for the caller.
func New(opts Options) (*Platform, error) {
	const op = "app.New"

	if opts.Config == nil {
		return nil, platformerrors.New(platformerrors.KindBootstrap, op, "configuration required")
	}
	if opts.Logger == nil {
		return nil, platformerrors.New(platformerrors.KindBootstrap, op, "logger required")
	}
	cfg := opts.Config
	if err := config.Validate(cfg); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "configuration invalid", err)
	}

	codec, err := session.NewCodec(cfg.Session.Token.Mode, cfg.Session.Token.Secret)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "token codec", err)
	}

	var sealer sessionstore.Sealer
	if cfg.Session.Cipher.Key != "" {
		cipher, err := session.NewCipher(cfg.Session.Cipher.Key)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "session cipher", err)
		}
		sealer = cipher
	}

	identityStore, err := identitystore.New(identitystore.Config{
		Driver: cfg.Identity.Store,
		Redis: &identitystore.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		},
	}, identitystore.Dependencies{SQLiteDB: opts.DB})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "identity store", err)
	}

	identities, err := identity.NewService(identityStore, opts.Logger)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "identity service", err)
	}
	verifier, err := identity.NewVerifier(identityStore, opts.Logger, opts.Bus)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "credential verifier", err)
	}

	sessStore, err := sessionstore.New(sessionstore.Config{
		Driver: cfg.Session.Store,
		Grace:  cfg.Session.Grace(),
		Redis: &sessionstore.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   cfg.Cache.Prefix,
		},
	}, sessionstore.Dependencies{SQLiteDB: opts.DB, Sealer: sealer})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "session store", err)
	}

	sessions, err := session.NewManager(session.Options{
		Store:           sessStore,
		Logger:          opts.Logger,
		Codec:           codec,
		Bus:             opts.Bus,
		TTL:             cfg.Session.TTL(),
		CleanupInterval: cfg.Session.CleanupInterval(),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "session manager", err)
	}

	dispatcher, err := dispatch.NewDispatcher(dispatch.Options{
		Sessions:   sessions,
		Identities: identities,
		Logger:     opts.Logger,
		Bus:        opts.Bus,
		Timeout:    cfg.Dispatch.Timeout(),
	})
	if err != nil {
		_ = sessions.Close()
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "dispatcher", err)
	}

	p := &Platform{
		cfg:        cfg,
		logger:     opts.Logger,
		bus:        opts.Bus,
		identities: identities,
		verifier:   verifier,
		sessions:   sessions,
		dispatcher: dispatcher,
	}
	if err := p.registerHandlers(); err != nil {
		_ = sessions.Close()
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "handler registration", err)
	}
	if err := registerAuditSubscribers(opts.Bus, opts.Logger); err != nil {
		_ = sessions.Close()
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, op, "audit subscribers", err)
	}

	opts.Logger.Info("platform initialized (env=%s, session_store=%s, identity_store=%s)",
		cfg.Environment, cfg.Session.Store, cfg.Identity.Store)
	return p, nil
}

func (p *Platform) registerHandlers() error {
	return recommend.NewHandler(p.logger).Register(p.dispatcher.Registry())
}

// RegisterHandler binds an additional request handler. Registration after
// startup is rare; duplicate types fail.
func (p *Platform) RegisterHandler(requestType string, h dispatch.Handler) error {
	return p.dispatcher.Registry().Register(requestType, h)
}

// RegisterUser creates an identity with hashed credentials.
func (p *Platform) RegisterUser(ctx context.Context, params identity.RegisterParams) (identitymodel.Identity, error) {
	return p.identities.Register(ctx, params)
}

// CreateSession verifies the credentials and issues a session token for the
// identity. Only the token string leaves the facade.
func (p *Platform) CreateSession(ctx context.Context, userID string, creds Credentials) (string, error) {
	ident, err := p.verifier.Verify(ctx, creds.Username, creds.Secret)
	if err != nil {
		return "", err
	}
	// Credentials must belong to the identity the caller claims.
	if userID != "" && ident.UserID != userID {
		return "", identity.ErrInvalidCredentials
	}

	issued, err := p.sessions.Issue(ctx, ident.UserID)
	if err != nil {
		return "", err
	}
	return issued.Token, nil
}

// ProcessRequest dispatches an authenticated request.
func (p *Platform) ProcessRequest(ctx context.Context, token string, req dispatch.Request) (dispatch.Result, error) {
	return p.dispatcher.Process(ctx, token, req)
}

// RefreshSession replaces the session behind the token, returning the new
// token.
func (p *Platform) RefreshSession(ctx context.Context, token string) (string, error) {
	issued, err := p.sessions.Refresh(ctx, token)
	if err != nil {
		return "", err
	}
	return issued.Token, nil
}

// RevokeSession invalidates the session behind the token.
func (p *Platform) RevokeSession(ctx context.Context, token string) error {
	return p.sessions.Revoke(ctx, token)
}

// RequestTypes lists the registered handler types.
func (p *Platform) RequestTypes() []string {
	return p.dispatcher.Registry().List()
}

// SuiteCatalog exposes the product suite catalog.
func (p *Platform) SuiteCatalog() map[identitymodel.SuiteType]recommend.SuiteInfo {
	return recommend.Catalog()
}

// Stats aggregates backend statistics for diagnostics.
func (p *Platform) Stats(ctx context.Context) (map[string]any, error) {
	sessionStats, err := p.sessions.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"environment": p.cfg.Environment,
		"sessions":    sessionStats,
	}, nil
}

// Close tears the platform down in reverse construction order.
func (p *Platform) Close() error {
	var errs []error
	if err := p.sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("session manager: %w", err))
	}
	if err := p.identities.Close(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("identity service: %w", err))
	}
	return errors.Join(errs...)
}
