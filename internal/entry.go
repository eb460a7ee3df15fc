// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sowilo/internal/api"
	"github.com/starford/sowilo/internal/catalog"
	"github.com/starford/sowilo/internal/focus"
	"github.com/starford/sowilo/internal/gamify"
	"github.com/starford/sowilo/internal/learnservice"
	"github.com/starford/sowilo/internal/mcpserver"
	"github.com/starford/sowilo/internal/search"
	"github.com/starford/sowilo/internal/sse"
	"github.com/starford/sowilo/internal/statestore"
	"github.com/starford/sowilo/internal/storage"
	"github.com/starford/sowilo/internal/userdata"
)

// core holds the wired application components shared by the HTTP server and
// the MCP server.
type core struct {
	store  *storage.FS
	db     *catalog.DB
	index  *search.Index
	recent *search.Recent
	svc    *learnservice.Service
}

// buildCore wires storage, catalog, state and the domain services. notify, if
// non-nil, receives gamification and user-data change events.
func buildCore(cfg *Config, logger *slog.Logger, notify func(event string, data any)) (*core, error) {
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	if err := catalog.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	paths, err := catalog.LoadPaths(filepath.Join(cfg.Content.Path, "paths"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load learning paths: %w", err)
	}

	states, err := statestore.New(cfg.State.Path)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init state store: %w", err)
	}

	engineOpts := []gamify.EngineOption{}
	userOpts := []userdata.Option{}
	if notify != nil {
		engineOpts = append(engineOpts, gamify.WithNotify(notify))
		userOpts = append(userOpts, userdata.WithNotify(notify))
	}

	engine := gamify.NewEngine(states, engineOpts...)
	if err := engine.Load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load gamification state: %w", err)
	}

	user := userdata.New(states, userOpts...)
	if err := user.Load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load user data: %w", err)
	}

	recent := search.NewRecent(states)
	if err := recent.Load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load recent searches: %w", err)
	}

	snapshot, err := db.Snapshot()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}

	c := &core{
		store:  store,
		db:     db,
		index:  search.NewIndex(snapshot),
		recent: recent,
		svc:    learnservice.New(db, engine, user, paths),
	}
	return c, nil
}

// rebuildIndex refreshes the search index from the current catalog.
func (c *core) rebuildIndex(logger *slog.Logger) {
	snapshot, err := c.db.Snapshot()
	if err != nil {
		logger.Warn("search index rebuild failed", slog.String("error", err.Error()))
		return
	}
	c.index.Rebuild(snapshot)
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("state_path", cfg.State.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	c, err := buildCore(cfg, logger, func(event string, data any) {
		broker.Publish(sse.Event{Type: event, Data: data})
	})
	if err != nil {
		return err
	}
	defer c.db.Close()

	// Focus timer, phase transitions pushed to clients.
	timer := focus.NewTimer(cfg.Timer.WorkDuration(), cfg.Timer.BreakDuration(),
		focus.WithTransition(func(finished, next focus.Phase) {
			broker.Publish(sse.Event{Type: "timer.phase", Data: map[string]string{
				"finished": string(finished),
				"next":     string(next),
			}})
		}))
	defer timer.Close()

	// Build API router.
	apiRouter := api.NewRouter(c.svc, c.index, c.recent, timer,
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher: catalog resync + search rebuild + SSE fanout.
	g.Go(func() error {
		err := catalog.Watch(gCtx, c.db, c.store, cfg.Content.Path, logger, func(kind, slug string) {
			c.rebuildIndex(logger)
			broker.PublishContentEvent(kind, slug)
		})
		if err != nil {
			logger.Warn("content watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the stdio MCP server with the given options. Logs go to
// stderr: stdout carries the MCP protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	c, err := buildCore(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer c.db.Close()

	return mcpserver.New(c.svc, c.index, c.store).ServeStdio()
}
