// Package remove реализует удаление учетной записи вместе со всеми
// зависимыми данными. Удаление выполняется одной транзакцией,
// после успеха текущая сессия уничтожается.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/session"
)

// Handler обрабатывает HTTP-запросы на удаление учетной записи.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessions   session.Store
	cookieName string
}

// Service описывает интерфейс бизнес-логики удаления учетной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions session.Store, cookieName string) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP godoc
// @Summary Удаление учетной записи
// @Description Удаляет пользователя и все его данные одной транзакцией, затем уничтожает сессию.
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response "Учетная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userUID); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete account, please try again"))
		return
	}

	// сессия уничтожается только после успешного удаления данных
	if sessionID, ok := r.Context().Value(middlewarectx.SessionID).(string); ok && sessionID != "" {
		if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
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

	log.Info("account deleted", slog.String("uid", userUID))
	render.JSON(w, r, response.OK("account deleted"))
}
