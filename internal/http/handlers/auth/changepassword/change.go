// Package changepassword реализует смену пароля из настроек профиля.
// Требует действующей сессии и подтверждения текущим паролем.
package changepassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	services "github.com/magabrotheeeer/home-inventory/internal/services/auth"
)

// Request — входные данные для смены пароля.
type Request struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на смену пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), userUID, req.CurrentPassword, req.NewPassword); err != nil {
		var policyErr *services.PolicyError
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Info("change password rejected: wrong current password")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("current password is incorrect"))
		case errors.As(err, &policyErr):
			log.Info("password policy violated")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(policyErr.Error()))
		default:
			log.Error("failed to change password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to change password, please try again"))
		}
		return
	}

	log.Info("password changed", slog.String("uid", userUID))
	render.JSON(w, r, response.OK("password updated successfully"))
}
