package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
)

const (
	msgInvalidUser  = "Invalid User ID"
	msgDayExists    = "Day already exists. Please update existing day instead of creating again."
	msgDayNotFound  = "The requested day does not exist."
	msgFoodNotFound = "ID not found. The requested food does not exist."
)

// diaryUseCase implements DiaryUseCase
type diaryUseCase struct {
	userStorage  ports.UserStorage
	diaryStorage ports.DiaryStorage
	events       *eventEmitter
	logger       *slog.Logger
}

// NewDiaryUseCase создает новый экземпляр DiaryUseCase.
// publisher может быть nil - тогда события не публикуются.
func NewDiaryUseCase(
	userStorage ports.UserStorage,
	diaryStorage ports.DiaryStorage,
	publisher ports.DiaryEventPublisher,
	logger *slog.Logger,
) DiaryUseCase {
	return &diaryUseCase{
		userStorage:  userStorage,
		diaryStorage: diaryStorage,
		events:       newEventEmitter(publisher, logger),
		logger:       logger,
	}
}

func (uc *diaryUseCase) CreateDiaryEntry(ctx context.Context, in CreateDiaryEntryInput) (*domain.Day, error) {
	if err := validateInput(in, foodMessages); err != nil {
		return nil, err
	}

	// все позиции проверяются до первой записи в бд
	foods := make([]domain.Food, 0, len(in.Foods))
	for i, item := range in.Foods {
		if err := item.validate(); err != nil {
			msg, _ := domain.Message(err)
			return nil, domain.NewValidationError(fmt.Sprintf("foods[%d]: %s", i, msg))
		}
		foods = append(foods, *domain.NewFood(0, item.fields()))
	}

	user, err := uc.userStorage.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(msgInvalidUser)
	}

	existing, err := uc.diaryStorage.GetDayByUserAndDate(ctx, in.UserID, in.Date)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up day", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError(msgDayExists)
	}

	day := domain.NewDay(in.UserID, in.Date)
	day.Foods = foods
	if err := uc.diaryStorage.CreateDayWithFoods(ctx, day); err != nil {
		// гонка двух запросов на одну дату ловится уникальным индексом
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflictError(msgDayExists)
		}
		return nil, domain.NewPersistenceError("Failed to create day in journal", err)
	}

	uc.logger.Info("diary entry recorded", "day_id", day.ID, "user_id", day.UserID, "foods", len(day.Foods))
	uc.events.emit(ctx, payloads.NewDiaryEvent(payloads.EventDayCreated, day.Serialize()).
		WithUser(day.UserID).
		WithDay(day.ID))
	return day, nil
}

func (uc *diaryUseCase) AddFoodToDay(ctx context.Context, in AddFoodInput) (*domain.Food, error) {
	if err := validateInput(in, foodMessages); err != nil {
		return nil, err
	}

	day, err := uc.diaryStorage.GetDayByID(ctx, in.DayID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up day", err)
	}
	if day == nil {
		return nil, domain.NewNotFoundError(msgDayNotFound)
	}

	food := domain.NewFood(day.ID, in.fields())
	if err := uc.diaryStorage.CreateFood(ctx, food); err != nil {
		return nil, domain.NewPersistenceError("Failed to create food and associate to day", err)
	}

	uc.events.emit(ctx, payloads.NewDiaryEvent(payloads.EventFoodCreated, food.Serialize()).
		WithUser(day.UserID).
		WithDay(day.ID).
		WithFood(food.ID))
	return food, nil
}

func (uc *diaryUseCase) UpdateFood(ctx context.Context, foodID uint, in FoodInput) (*domain.Food, error) {
	food, err := uc.findFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	food.Apply(in.fields())
	if err := uc.diaryStorage.UpdateFood(ctx, food); err != nil {
		return nil, domain.NewPersistenceError("Failed to update food", err)
	}

	uc.emitFoodEvent(ctx, payloads.EventFoodUpdated, food)
	return food, nil
}

func (uc *diaryUseCase) DeleteFood(ctx context.Context, foodID uint) error {
	food, err := uc.findFood(ctx, foodID)
	if err != nil {
		return err
	}

	if err := uc.diaryStorage.DeleteFood(ctx, food); err != nil {
		return domain.NewPersistenceError("Failed to delete food", err)
	}

	uc.emitFoodEvent(ctx, payloads.EventFoodDeleted, food)
	return nil
}

func (uc *diaryUseCase) ListAllFoods(ctx context.Context) ([]domain.Food, error) {
	foods, err := uc.diaryStorage.ListFoods(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list foods", err)
	}
	return foods, nil
}

func (uc *diaryUseCase) GetDay(ctx context.Context, dayID uint) (*domain.Day, error) {
	day, err := uc.diaryStorage.GetDayByID(ctx, dayID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up day", err)
	}
	if day == nil {
		return nil, domain.NewNotFoundError(msgDayNotFound)
	}
	return day, nil
}

func (uc *diaryUseCase) findFood(ctx context.Context, foodID uint) (*domain.Food, error) {
	if foodID == 0 {
		return nil, domain.NewValidationError("food_id is required")
	}
	food, err := uc.diaryStorage.GetFoodByID(ctx, foodID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up food", err)
	}
	if food == nil {
		return nil, domain.NewNotFoundError(msgFoodNotFound)
	}
	return food, nil
}

// emitFoodEvent дополняет событие владельцем дня, чтобы оно попало в журнал пользователя
func (uc *diaryUseCase) emitFoodEvent(ctx context.Context, kind string, food *domain.Food) {
	if !uc.events.enabled() {
		return
	}
	ev := payloads.NewDiaryEvent(kind, food.Serialize()).
		WithDay(food.DayID).
		WithFood(food.ID)

	day, err := uc.diaryStorage.GetDayByID(ctx, food.DayID)
	switch {
	case err != nil:
		uc.logger.Warn("failed to resolve day owner for event", "day_id", food.DayID, "error", err)
	case day != nil:
		ev = ev.WithUser(day.UserID)
	}
	uc.events.emit(ctx, ev)
}
