// Package remove реализует HTTP-обработчик для удаления предмета имущества.
//
// Handler извлекает ID из URL-параметров и вызывает бизнес-логику удаления записи.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление предмета.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики удаления предмета
}

// Service описывает интерфейс бизнес-логики удаления предмета.
type Service interface {
	Remove(ctx context.Context, userUID string, id int64) (int64, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление предмета
// @Description Удаляет предмет текущего пользователя по идентификатору.
// @Tags Items
// @Produce  json
// @Param id path int true "Идентификатор предмета"
// @Success 200 {object} response.Response "Количество удаленных записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.remove"

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

	count, err := h.service.Remove(r.Context(), userUID, id)
	if err != nil {
		log.Error("failed to remove item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove item, please try again"))
		return
	}
	if count == 0 {
		log.Info("item not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("item not found"))
		return
	}

	log.Info("item removed", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData("item removed successfully", map[string]any{
		"count": count,
	}))
}
