// Package update реализует HTTP-обработчик для изменения предмета имущества.
//
// Handler извлекает ID из URL-параметров, валидирует новые данные
// и вызывает бизнес-логику обновления записи.
package update

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// Handler обрабатывает запросы на изменение предмета.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики обновления предмета
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает интерфейс бизнес-логики обновления предмета.
type Service interface {
	Update(ctx context.Context, userUID string, id int64, req models.DummyItem) (int64, error)
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
// @Summary Изменение предмета
// @Description Обновляет предмет текущего пользователя по идентификатору.
// @Tags Items
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор предмета"
// @Param request body models.DummyItem true "Новые данные предмета"
// @Success 200 {object} response.Response "Количество обновленных записей"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибки валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.update"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
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

	count, err := h.service.Update(r.Context(), userUID, id, req)
	if err != nil {
		log.Error("failed to update item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update item, please try again"))
		return
	}
	if count == 0 {
		log.Info("item not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("item not found"))
		return
	}

	log.Info("item updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData("item updated successfully", map[string]any{
		"count": count,
	}))
}
