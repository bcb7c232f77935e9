// Package login реализует HTTP-обработчик для запросов аутентификации пользователей.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка и валидация полей, а также делегирование операции входа сервису аутентификации.
// При успешной аутентификации создается серверная сессия и устанавливается cookie;
// в случае ошибок формируются соответствующие HTTP-ответы.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/models"
	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
	"github.com/magabrotheeeer/home-inventory/internal/session"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на вход.
type Handler struct {
	log        *slog.Logger        // Логгер для записи операций и ошибок
	service    Service             // Сервис бизнес-логики аутентификации
	sessions   session.Store       // Серверное хранилище сессий
	cookieName string              // Имя сессионной cookie
	sessionTTL time.Duration       // Срок жизни сессии и cookie
	validate   *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, rawPassword string) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions session.Store,
	cookieName string, sessionTTL time.Duration) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, создает серверную сессию и устанавливает cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	// тело запроса содержит пароль, поэтому в лог уходит только email
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// неизвестный email и неверный пароль дают один и тот же ответ
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Info("login rejected")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to log in, please try again"))
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), session.Data{
		UserUID: user.UID,
		Email:   user.Email,
		Name:    user.DisplayName(),
	})
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to log in, please try again"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login success", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData("logged in successfully", map[string]any{
		"uid":   user.UID,
		"email": user.Email,
		"name":  user.DisplayName(),
	}))
}
