package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
)

// RequireRole создает middleware, пропускающий только пользователей с нужной
// ролью. Единая точка авторизации для привилегированных маршрутов вместо
// повторной проверки роли в каждом обработчике.
func RequireRole(log *slog.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(Role).(string)
			if !ok || userRole == "" {
				log.Error("user role missing in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if userRole != role {
				log.Error("access denied", slog.String("required_role", role), slog.String("user_role", userRole))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
