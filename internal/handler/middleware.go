package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/adapter/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger - middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				attrs = append(attrs, "user_id", claims.UserID)
			}
			logger.Info("http request", attrs...)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// TokenParser проверяет access-токен
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// Authenticate кладет в контекст claims из заголовка Authorization: Bearer.
// Эндпоинты открыты, поэтому невалидный токен только логируется.
func Authenticate(parser TokenParser, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.Warn("ignoring invalid access token", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFromContext возвращает claims, если запрос пришел с валидным токеном
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
