// Package update реализует HTTP-обработчик изменения профиля
// текущего пользователя. Обновление частичное: пустые поля запроса
// не затрагиваются, смена пароля перехеширует его на сервере.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error)
}

// Handler обрабатывает обновление профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль текущего пользователя
// @Description Частично обновляет имя, email, телефон или пароль учётной записи.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.UpdateProfileRequest true "Изменяемые поля профиля"
// @Success 200 {object} map[string]any "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /me [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.UpdateProfileRequest
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

	user, err := h.service.UpdateProfile(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			log.Info("email already taken", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already taken"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update profile"))
		}
		return
	}

	log.Info("profile updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":              user.UID,
		"full_name":             user.FullName,
		"email":                 user.Email,
		"role":                  user.Role,
		"subscription_status":   user.SubscriptionStatus,
		"subscription_id":       user.SubscriptionID,
		"has_paid_one_time_fee": user.HasPaidOneTimeFee,
	}))
}
