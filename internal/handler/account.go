package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

// AccountHandler - регистрация и вход.
type AccountHandler struct {
	accountUseCase usecase.AccountUseCase
	logger         *slog.Logger
}

func NewAccountHandler(uc usecase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accountUseCase: uc, logger: logger}
}

// Register - POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.accountUseCase.Register(r.Context(), in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	respondWithMsg(w, http.StatusOK, "User successfully registered", h.logger)
}

// Login - POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	res, err := h.accountUseCase.Login(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	h.logger.Info("user logged in", "user_id", res.User.ID)
	respondWithJSON(w, http.StatusOK, res, h.logger)
}
