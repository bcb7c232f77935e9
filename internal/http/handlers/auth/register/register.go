// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Принимает JSON с именем, фамилией, email и паролем, валидирует поля,
// делегирует создание учетной записи сервису аутентификации и возвращает
// результат в едином формате {success, message}.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, firstName, lastName, email, rawPassword string) (string, error)
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
// @Summary Регистрация пользователя
// @Description Создает новую учетную запись. Сессия не создается, требуется отдельный вход.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.Response "Учетная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	uid, err := h.service.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		var policyErr *services.PolicyError
		switch {
		case errors.As(err, &policyErr):
			log.Info("password policy violated")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(policyErr.Error()))
		case errors.Is(err, services.ErrEmailTaken):
			log.Info("email already registered")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("this email is already registered"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register, please try again"))
		}
		return
	}

	log.Info("user registered", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData("account created successfully", map[string]any{
		"email": req.Email,
	}))
}
