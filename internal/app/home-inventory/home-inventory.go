// Package homeinventory собирает все зависимости основного приложения:
// базу данных, хранилище сессий, почтовый транспорт, сервисы и HTTP-сервер.
package homeinventory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/home-inventory/internal/config"
	"github.com/magabrotheeeer/home-inventory/internal/lib/smtp"
	"github.com/magabrotheeeer/home-inventory/internal/migrations"
	authservice "github.com/magabrotheeeer/home-inventory/internal/services/auth"
	inventoryservice "github.com/magabrotheeeer/home-inventory/internal/services/inventory"
	mailerservice "github.com/magabrotheeeer/home-inventory/internal/services/mailer"
	"github.com/magabrotheeeer/home-inventory/internal/session"
	"github.com/magabrotheeeer/home-inventory/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions *session.RedisStore
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessions, err := session.New(ctx, cfg.RedisConnection, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mailer := mailerservice.New(transport, logger, cfg.AppBaseURL)

	authService := authservice.NewAuthService(db, db, mailer, logger, cfg.ResetTokenTTL)
	inventoryService := inventoryservice.NewInventoryService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, sessions, authService, inventoryService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		sessions: sessions,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.sessions.Close(); closeErr != nil {
			a.logger.Error("failed to close session store", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
