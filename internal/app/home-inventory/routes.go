package homeinventory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/home-inventory/internal/config"
	accountremove "github.com/magabrotheeeer/home-inventory/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/resetcomplete"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/auth/resetrequest"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/health"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/item/create"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/item/list"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/item/read"
	itemremove "github.com/magabrotheeeer/home-inventory/internal/http/handlers/item/remove"
	"github.com/magabrotheeeer/home-inventory/internal/http/handlers/item/update"
	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/home-inventory/internal/services/auth"
	inventoryservice "github.com/magabrotheeeer/home-inventory/internal/services/inventory"
	"github.com/magabrotheeeer/home-inventory/internal/session"
	"github.com/magabrotheeeer/home-inventory/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, sessions session.Store,
	authService *authservice.AuthService, inventoryService *inventoryservice.InventoryService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService, sessions, cfg.CookieName, cfg.SessionTTL).ServeHTTP)
		r.Post("/logout", logout.New(logger, sessions, cfg.CookieName).ServeHTTP)
		r.Post("/password/reset", resetrequest.New(logger, authService).ServeHTTP)
		r.Post("/password/reset/complete", resetcomplete.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с сессионной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessions, cfg.CookieName, logger))
			r.Post("/password/change", changepassword.New(logger, authService).ServeHTTP)
			r.Delete("/account", accountremove.New(logger, authService, sessions, cfg.CookieName).ServeHTTP)
			r.Post("/items", create.New(logger, inventoryService).ServeHTTP)
			r.Get("/items", list.New(logger, inventoryService).ServeHTTP)
			r.Get("/items/{id}", read.New(logger, inventoryService).ServeHTTP)
			r.Put("/items/{id}", update.New(logger, inventoryService).ServeHTTP)
			r.Delete("/items/{id}", itemremove.New(logger, inventoryService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
