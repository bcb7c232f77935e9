// Package list реализует HTTP-обработчик для получения всех предметов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/home-inventory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/home-inventory/internal/http/response"
	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/models"
)

// Handler обрабатывает запросы на получение списка предметов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики получения списка
}

// Service описывает интерфейс бизнес-логики получения списка предметов.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Item, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список предметов
// @Description Возвращает все предметы текущего пользователя, отсортированные по дате добавления.
// @Tags Items
// @Produce  json
// @Success 200 {object} response.Response "Список предметов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /items [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.list"

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

	items, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list items, please try again"))
		return
	}

	log.Info("items listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData("items listed successfully", map[string]any{
		"items": items,
	}))
}
