package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	msgMissingJSON = "Missing JSON in request"
	msgInvalidJSON = "Invalid JSON in request"
	msgInternal    = "Internal server error"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

// respondWithJSON - отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"` + msgInternal + `"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithMsg - ответ вида {"msg": "..."}
func respondWithMsg(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"msg": message}, logger)
}

// statusFor сопоставляет категорию ошибки со статусом HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrPersistence):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError - переводит ошибку сервиса в JSON-ответ {"msg": ...}
func respondWithError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code := statusFor(err)
	msg, ok := domain.Message(err)
	if !ok || code == http.StatusInternalServerError {
		msg = msgInternal
	}

	if code >= http.StatusInternalServerError || errors.Is(err, domain.ErrPersistence) {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	} else {
		logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "msg", msg)
	}
	respondWithMsg(w, code, msg, logger)
}

// decodeJSON читает тело запроса в dst. Пустое тело и битый JSON
// возвращаются как ошибки валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return domain.NewValidationError(msgMissingJSON)
	default:
		return &domain.Error{Kind: domain.ErrValidation, Msg: msgInvalidJSON, Err: err}
	}
}

// pathID читает положительный числовой параметр пути
func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}
