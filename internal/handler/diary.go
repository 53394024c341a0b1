package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

// DiaryHandler - обработчик HTTP-запросов дневника питания.
type DiaryHandler struct {
	diaryUseCase usecase.DiaryUseCase
	logger       *slog.Logger
}

func NewDiaryHandler(uc usecase.DiaryUseCase, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{diaryUseCase: uc, logger: logger}
}

// CreateDiaryEntry - POST /diary, день вместе со списком продуктов
func (h *DiaryHandler) CreateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateDiaryEntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	day, err := h.diaryUseCase.CreateDiaryEntry(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"msg":     "Journal entry was recorded",
		"journal": day.Serialize(),
	}, h.logger)
}

// AddFood - POST /diary/food
func (h *DiaryHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddFoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	food, err := h.diaryUseCase.AddFoodToDay(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"msg":  "Success",
		"food": food.Serialize(),
	}, h.logger)
}

// UpdateOrDeleteFood - PUT и DELETE /diary/food/{food_id}
func (h *DiaryHandler) UpdateOrDeleteFood(w http.ResponseWriter, r *http.Request) {
	foodID, err := pathID(r, "food_id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateFood(w, r, foodID)
	case http.MethodDelete:
		h.deleteFood(w, r, foodID)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		respondWithMsg(w, http.StatusMethodNotAllowed, "Method not allowed", h.logger)
	}
}

func (h *DiaryHandler) updateFood(w http.ResponseWriter, r *http.Request, foodID uint) {
	var in usecase.FoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	food, err := h.diaryUseCase.UpdateFood(r.Context(), foodID, in)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"msg":  "Food successfully updated",
		"food": food.Serialize(),
	}, h.logger)
}

func (h *DiaryHandler) deleteFood(w http.ResponseWriter, r *http.Request, foodID uint) {
	if err := h.diaryUseCase.DeleteFood(r.Context(), foodID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithMsg(w, http.StatusOK, "Success!", h.logger)
}

// ListAllFoods - GET /diary/food/all
func (h *DiaryHandler) ListAllFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.diaryUseCase.ListAllFoods(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"foods": domain.SerializeFoods(foods)}, h.logger)
}

// GetDay - GET /diary/{day_id}
func (h *DiaryHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathID(r, "day_id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	day, err := h.diaryUseCase.GetDay(r.Context(), dayID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"day": day.Serialize()}, h.logger)
}
