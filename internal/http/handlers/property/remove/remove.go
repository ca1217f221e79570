// Package remove реализует HTTP-обработчик удаления объекта каталога.
// Доступен только администраторам.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс сервиса каталога.
type Service interface {
	Remove(ctx context.Context, id int) error
}

// Handler обрабатывает удаление объектов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить объект недвижимости
// @Description Удаляет объект каталога по ID. Только для администраторов.
// @Tags Properties
// @Produce  json
// @Param id path int true "ID объекта"
// @Success 200 {object} response.Response "Объект удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/properties/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.property.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid property id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid property id"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrPropertyNotFound) {
			log.Info("property not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
			return
		}
		log.Error("failed to remove property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove property"))
		return
	}

	log.Info("property removed", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
