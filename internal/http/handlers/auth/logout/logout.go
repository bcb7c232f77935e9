// Package logout реализует HTTP-обработчик выхода из системы.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/session"
)

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log        *slog.Logger
	sessions   session.Store
	cookieName string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions session.Store, cookieName string) *Handler {
	return &Handler{
		log:        log,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP уничтожает текущую сессию. Операция идемпотентна:
// повторный вызов без сессии также завершается успехом.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			// сессия все равно недоступна клиенту после сброса cookie
			log.Error("failed to delete session", sl.Err(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("logout complete")
	render.JSON(w, r, response.OK("logged out"))
}
