package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

// UserHandler - профиль пользователя, журнал действий и бэкап дневника.
// backupUseCase равен nil, если объектное хранилище не настроено.
type UserHandler struct {
	accountUseCase  usecase.AccountUseCase
	activityUseCase usecase.ActivityUseCase
	backupUseCase   usecase.BackupUseCase
	logger          *slog.Logger
}

func NewUserHandler(
	account usecase.AccountUseCase,
	activity usecase.ActivityUseCase,
	backup usecase.BackupUseCase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		accountUseCase:  account,
		activityUseCase: activity,
		backupUseCase:   backup,
		logger:          logger,
	}
}

// BackupEnabled сообщает, нужно ли монтировать маршрут бэкапа
func (h *UserHandler) BackupEnabled() bool {
	return h.backupUseCase != nil
}

// GetUser - GET /users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	user, err := h.accountUseCase.GetUser(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"user": user.Serialize()}, h.logger)
}

// ListActivity - GET /users/{user_id}/activity
func (h *UserHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	entries, err := h.activityUseCase.ListUserActivity(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"activity": entries}, h.logger)
}

// Backup - POST /users/{user_id}/backup
func (h *UserHandler) Backup(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	res, err := h.backupUseCase.BackupUser(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"msg":      "Backup created",
		"key":      res.Key,
		"location": res.Location,
	}, h.logger)
}
