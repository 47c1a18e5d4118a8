// Package app assembles the civic service from configuration: store,
// services, hosted model client and HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/civic/internal/assistant"
	"github.com/sumire/civic/internal/config"
	"github.com/sumire/civic/internal/handler"
	"github.com/sumire/civic/internal/repository"
	"github.com/sumire/civic/internal/service"
)

// App holds the wired dependencies.
type App struct {
	Config config.Config
	DB     *sqlx.DB
	Issues *service.IssueService
	Tokens *service.TokenService
	Chat   *service.ChatService
}

// SetupLogger installs the default slog logger.
func SetupLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// New connects to the store, applies the schema and wires the services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := repository.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("database connected", "driver", cfg.DatabaseDriver)

	if cfg.ActionTokenSecretGenerated {
		slog.Warn("ACTION_TOKEN_SECRET not set, using a per-process secret")
	}
	if !cfg.ActionTokensRequired {
		slog.Warn("action tokens disabled, confirmations execute client-supplied actions")
	}

	issues := service.NewIssueService(repository.NewIssueRepository(db))
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:   cfg.AuthJWTSecret,
		ActionSecret:   cfg.ActionTokenSecret,
		ActionTokenTTL: cfg.ActionTokenTTL,
	})

	var model assistant.Completer
	if cfg.AnthropicAPIKey != "" {
		model = assistant.NewAnthropicClient(assistant.AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.AnthropicTimeout,
			BaseURL: cfg.AnthropicBaseURL,
		})
		slog.Info("hosted model enabled", "model", cfg.AnthropicModel)
	} else {
		slog.Info("no ANTHROPIC_API_KEY, replies use templates")
	}

	chat := service.NewChatService(issues, assistant.NewComposer(model), tokens, service.ChatConfig{
		RequireActionTokens: cfg.ActionTokensRequired,
	})

	return &App{
		Config: cfg,
		DB:     db,
		Issues: issues,
		Tokens: tokens,
		Chat:   chat,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.DB.Close()
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return handler.NewRouter(handler.RouterConfig{
		Chat:        a.Chat,
		Issues:      a.Issues,
		Tokens:      a.Tokens,
		FrontendURL: a.Config.FrontendURL,
	})
}

// Serve runs the HTTP server until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Port),
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", a.Config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
