// Package middlewarectx содержит HTTP middleware для проверки серверных сессий.
//
// SessionMiddleware проверяет наличие и валидность сессионной cookie,
// ищет сессию в хранилище и в случае успеха добавляет в контекст
// идентификатор и email пользователя для дальнейшего использования в обработчиках.
//
// Запрос без действующей сессии получает HTTP 401 Unauthorized, по которому
// клиентская часть перенаправляет пользователя на экран входа.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// UserEmail — ключ для email пользователя в контексте
	UserEmail Key = "user_email"
	// SessionID — ключ для идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионную cookie.
//
// Если сессия найдена в хранилище, добавляет идентификатор пользователя,
// email и ID сессии в контекст запроса, иначе возвращает 401 Unauthorized.
// Применяется единообразно ко всей группе защищенных маршрутов.
func SessionMiddleware(sessions session.Store, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Info("request without session cookie")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			data, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					log.Info("session not found or expired")
				} else {
					log.Error("failed to look up session", sl.Err(err))
				}
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, data.UserUID)
			ctx = context.WithValue(ctx, UserEmail, data.Email)
			ctx = context.WithValue(ctx, SessionID, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
