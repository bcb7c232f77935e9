// Package create реализует HTTP-обработчик для добавления предмета имущества.
//
// Handler принимает JSON с данными предмета, валидирует их,
// вызывает бизнес-логику создания и возвращает идентификатор новой записи.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// Handler обрабатывает запросы на добавление предмета.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики создания предмета
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает интерфейс бизнес-логики создания предмета.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyItem) (int64, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавление предмета
// @Description Создает новую запись предмета имущества для текущего пользователя.
// @Tags Items
// @Accept  json
// @Produce  json
// @Param request body models.DummyItem true "Данные предмета"
// @Success 200 {object} response.Response "Идентификатор созданной записи"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибки валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.create"

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

	var req models.DummyItem
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create item, please try again"))
		return
	}

	log.Info("item created", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData("item created successfully", map[string]any{
		"id": id,
	}))
}
