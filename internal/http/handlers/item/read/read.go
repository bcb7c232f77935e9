// Package read реализует HTTP-обработчик для получения конкретного предмета по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения
// и возвращает данные предмета в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/models"
	"github.com/magabrotheeeer/home-inventory/internal/storage/repository"
)

// Handler обрабатывает запросы на получение предмета по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики чтения предмета
}

// Service описывает интерфейс бизнес-логики чтения предмета.
type Service interface {
	Read(ctx context.Context, userUID string, id int64) (*models.Item, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получение предмета
// @Description Возвращает предмет текущего пользователя по идентификатору.
// @Tags Items
// @Produce  json
// @Param id path int true "Идентификатор предмета"
// @Success 200 {object} response.Response "Данные предмета"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.read"

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

	item, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("item not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
			return
		}
		log.Error("failed to read item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read item, please try again"))
		return
	}

	log.Info("item read", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData("item read successfully", map[string]any{
		"item": item,
	}))
}
