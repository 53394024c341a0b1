package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger проверяет доступность бд
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health - GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
