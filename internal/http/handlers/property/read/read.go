// Package read реализует HTTP-обработчик чтения объекта каталога по слагу.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс сервиса каталога.
type Service interface {
	ReadBySlug(ctx context.Context, slug string) (*models.Property, error)
}

// Handler обрабатывает чтение объекта.
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
// @Summary Получить объект недвижимости
// @Description Возвращает объект каталога по слагу.
// @Tags Properties
// @Produce  json
// @Param slug path string true "Слаг объекта"
// @Success 200 {object} map[string]any "Объект"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /properties/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.property.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing slug"))
		return
	}

	property, err := h.service.ReadBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrPropertyNotFound) {
			log.Info("property not found", slog.String("slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
			return
		}
		log.Error("failed to read property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read property"))
		return
	}

	render.JSON(w, r, response.OKWithData(property))
}
