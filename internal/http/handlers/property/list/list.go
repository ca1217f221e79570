// Package list реализует HTTP-обработчик списка объектов каталога.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс сервиса каталога.
type Service interface {
	List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
}

// Handler обрабатывает запросы списка объектов.
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
// @Summary Список объектов недвижимости
// @Description Возвращает объекты каталога с фильтрами и пагинацией.
// @Tags Properties
// @Produce  json
// @Param city query string false "Город"
// @Param min_price query number false "Минимальная цена"
// @Param max_price query number false "Максимальная цена"
// @Param bedrooms query int false "Число спален"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список объектов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /properties [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.property.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.PropertyFilter{
		City: query.Get("city"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(query.Get("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(query.Get("max_price"), 64)
	filter.Bedrooms, _ = strconv.Atoi(query.Get("bedrooms"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))

	properties, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list properties", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list properties"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"properties": properties,
		"count":      len(properties),
	}))
}
