// Package resetrequest реализует первую фазу сброса пароля: прием email
// и выдачу токена с отправкой письма.
//
// Ответ одинаков для зарегистрированных и незарегистрированных адресов,
// чтобы по нему нельзя было перечислять учетные записи.
package resetrequest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
)

// genericMessage единый ответ первой фазы независимо от существования учетной записи.
const genericMessage = "If an account with that email exists, a reset link has been sent"

// Request — входные данные для запроса сброса пароля.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает HTTP-запросы первой фазы сброса пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики запроса сброса.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
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
// @Summary Запрос сброса пароля
// @Description Отправляет письмо со ссылкой для сброса, если учетная запись существует.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email учетной записи"
// @Success 200 {object} response.Response "Запрос принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /password/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetrequest"

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
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		log.Error("failed to process reset request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process request, please try again"))
		return
	}

	log.Info("reset request processed")
	render.JSON(w, r, response.OK(genericMessage))
}
