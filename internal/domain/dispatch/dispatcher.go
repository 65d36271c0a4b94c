package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lvlhub-server-go/internal/domain/eventbus"
	"lvlhub-server-go/internal/domain/identity"
	"lvlhub-server-go/internal/domain/session"
)

const defaultHandlerTimeout = 30 * time.Second

// Options encapsulates the dependencies required to construct a Dispatcher.
type Options struct {
	Sessions   *session.Manager
	Identities *identity.Service
	Registry   *Registry
	Logger     Logger
	Bus        *eventbus.Bus
	Timeout    time.Duration
}

// Dispatcher authenticates a request against its session, resolves the
// handler for its type and runs it under a bounded deadline. It never
// mutates session state.
type Dispatcher struct {
	sessions   *session.Manager
	identities *identity.Service
	registry   *Registry
	logger     Logger
	bus        *eventbus.Bus
	timeout    time.Duration
}

// NewDispatcher wires a Dispatcher using the supplied options.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Sessions == nil {
		return nil, errors.New("dispatcher requires a session manager")
	}
	if opts.Identities == nil {
		return nil, errors.New("dispatcher requires an identity service")
	}
	if opts.Logger == nil {
		return nil, errors.New("dispatcher requires a logger")
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &Dispatcher{
		sessions:   opts.Sessions,
		identities: opts.Identities,
		registry:   registry,
		logger:     opts.Logger,
		bus:        opts.Bus,
		timeout:    timeout,
	}, nil
}

// Registry exposes the handler table for startup registration.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

type handlerResult struct {
	payload any
	err     error
}

// Process validates the session, loads the bound identity and invokes the
// handler registered for the request type. The handler runs at most once;
// a timeout abandons the invocation and reports ErrHandlerTimeout.
func (d *Dispatcher) Process(ctx context.Context, token string, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sess, err := d.sessions.Validate(ctx, token)
	if err != nil {
		return Result{}, err
	}
	ident, err := d.identities.Get(ctx, sess.UserID)
	if err != nil {
		return Result{}, err
	}
	handler, err := d.registry.Resolve(req.Type)
	if err != nil {
		return Result{}, err
	}

	requestID := uuid.NewString()
	d.logger.Debug("dispatching %s request %s for %s", req.Type, requestID, ident.UserID)

	handlerCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan handlerResult, 1)
	go func() {
		payload, err := handler.Handle(handlerCtx, ident, req.Parameters)
		done <- handlerResult{payload: payload, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			d.report(requestID, req.Type, ident.UserID, res.err)
			return Result{}, fmt.Errorf("%w: %w", ErrHandlerFailed, res.err)
		}
		d.publish(eventbus.EventDispatchHandled, eventbus.DispatchEventData{
			RequestID:   requestID,
			RequestType: req.Type,
			UserID:      ident.UserID,
		})
		return Result{
			RequestID: requestID,
			Type:      req.Type,
			UserID:    ident.UserID,
			Payload:   res.payload,
		}, nil
	case <-handlerCtx.Done():
		// The caller backing out is not a handler fault; only a deadline
		// elapsing inside our own budget counts as a timeout.
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		d.report(requestID, req.Type, ident.UserID, context.DeadlineExceeded)
		return Result{}, fmt.Errorf("%w: %s after %s", ErrHandlerTimeout, req.Type, d.timeout)
	}
}

func (d *Dispatcher) report(requestID, requestType, userID string, err error) {
	d.logger.Warn("request %s (%s) failed: %v", requestID, requestType, err)
	d.publish(eventbus.EventDispatchFailed, eventbus.DispatchEventData{
		RequestID:   requestID,
		RequestType: requestType,
		UserID:      userID,
		Error:       err.Error(),
	})
}

func (d *Dispatcher) publish(topic string, data eventbus.DispatchEventData) {
	if d.bus == nil {
		return
	}
	d.bus.PublishAsync(topic, data)
}
