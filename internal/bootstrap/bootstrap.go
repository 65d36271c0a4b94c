package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"lvlhub-server-go/internal/app"
	"lvlhub-server-go/internal/domain/eventbus"
	platformconfig "lvlhub-server-go/internal/platform/config"
	platformerrors "lvlhub-server-go/internal/platform/errors"
	platformlogging "lvlhub-server-go/internal/platform/logging"
	platformstorage "lvlhub-server-go/internal/platform/storage"
	httptransport "lvlhub-server-go/internal/transport/http"
)

const eventBusWorkers = 4

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	db         *gorm.DB
	bus        *eventbus.Bus
	platform   *app.Platform
}

// Run drives the whole service lifecycle: configuration, dependency
// initialisation, serving and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.platform == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"platform not initialised",
		)
	}

	defer func() {
		if err := state.platform.Close(); err != nil {
			logger.Error("platform did not close cleanly: %v", err)
		}
		if state.bus != nil {
			state.bus.Shutdown()
		}
		logger.Close()
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start HTTP service: %w", err)
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.Info("service stopped cleanly")
	return nil
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph lists the initialisation steps in dependency order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open-database",
			Title:     "Open relational database",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   openDatabaseStep,
		},
		{
			ID:        "events:init-bus",
			Title:     "Initialise event bus",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEventBusStep,
		},
		{
			ID:        "app:init-platform",
			Title:     "Initialise platform facade",
			DependsOn: []string{"storage:open-database", "events:init-bus"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initPlatformStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load", "failed to load configuration", err)
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialise logging", err)
	}
	state.logger = logger

	logger.Info("logging ready [%s] %s (env=%s)",
		state.config.Log.Level, state.configPath, state.config.Environment)
	return nil
}

// openDatabaseStep opens the gorm handle only when a component actually
// selected the sqlite driver.
func openDatabaseStep(_ context.Context, state *appState) error {
	if state.config == nil || state.logger == nil {
		return platformerrors.New(
			platformerrors.KindStorage,
			"storage:open-database",
			"missing config/logger",
		)
	}
	if !needsDatabase(state.config) {
		state.logger.Debug("no sqlite-backed store configured, skipping database")
		return nil
	}

	db, err := platformstorage.Open(state.config.Database.Driver, state.config.Database.DSN)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "storage:open-database", "failed to open database", err)
	}
	state.db = db
	state.logger.Info("database ready (%s)", state.config.Database.Driver)
	return nil
}

func needsDatabase(cfg *platformconfig.Config) bool {
	return strings.EqualFold(cfg.Identity.Store, "sqlite") ||
		strings.EqualFold(cfg.Session.Store, "sqlite")
}

func initEventBusStep(_ context.Context, state *appState) error {
	state.bus = eventbus.New(eventBusWorkers)
	return nil
}

func initPlatformStep(_ context.Context, state *appState) error {
	if state.config == nil || state.logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"app:init-platform",
			"missing config/logger",
		)
	}

	platform, err := app.New(app.Options{
		Config: state.config,
		Logger: state.logger,
		DB:     state.db,
		Bus:    state.bus,
	})
	if err != nil {
		return err
	}
	state.platform = platform
	return nil
}

func startHTTPServer(
	state *appState,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, httptransport.APIResponse{
				Success: false,
				Data:    gin.H{},
				Message: "api not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.File(config.Web.StaticDir + "/index.html")
	})

	apiService, err := httptransport.NewService(state.platform, logger)
	if err != nil {
		return nil, err
	}
	if err := apiService.Register(groupCtx, httpRouter.API); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.Info("HTTP service listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP service shutdown failed: %v", err)
			} else {
				logger.Info("HTTP service shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP service failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.Info("shutdown requested (%v), cleaning up", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("error during shutdown: %v", err)
			return err
		}
		logger.Info("all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.Error("shutdown timed out, forcing exit")
		return timeoutErr
	}
	return nil
}
