// Package resetcomplete реализует вторую фазу сброса пароля:
// проверку токена и установку нового пароля.
package resetcomplete

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
)

// Request — входные данные для завершения сброса пароля.
type Request struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы второй фазы сброса пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики завершения сброса.
type Service interface {
	CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Завершение сброса пароля
// @Description Проверяет токен из письма и устанавливает новый пароль. Токен одноразовый.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен и новый пароль"
// @Success 200 {object} response.Response "Пароль обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неизвестный или истекший токен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /password/reset/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetcomplete"

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

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.CompletePasswordReset(r.Context(), req.Token, req.Password); err != nil {
		var policyErr *services.PolicyError
		switch {
		case errors.Is(err, services.ErrInvalidOrExpiredToken):
			log.Info("reset rejected: invalid or expired token")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("reset link is invalid or has expired"))
		case errors.As(err, &policyErr):
			log.Info("password policy violated")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(policyErr.Error()))
		default:
			log.Error("failed to complete password reset", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reset password, please try again"))
		}
		return
	}

	log.Info("password reset completed")
	render.JSON(w, r, response.OK("password updated successfully"))
}
