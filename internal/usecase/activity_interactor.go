package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
	"github.com/google/uuid"
)

type activityUseCase struct {
	userStorage     ports.UserStorage
	activityStorage ports.ActivityStorage
	logger          *slog.Logger
}

func NewActivityUseCase(
	userStorage ports.UserStorage,
	activityStorage ports.ActivityStorage,
	logger *slog.Logger,
) ActivityUseCase {
	return &activityUseCase{
		userStorage:     userStorage,
		activityStorage: activityStorage,
		logger:          logger,
	}
}

func (uc *activityUseCase) RecordEvent(ctx context.Context, ev payloads.DiaryEvent) error {
	if ev.ID == uuid.Nil {
		return domain.NewValidationError("event id is required")
	}
	if ev.Kind == "" {
		return domain.NewValidationError("event kind is required")
	}

	entry := &domain.ActivityLog{
		EventID:   ev.ID,
		Kind:      ev.Kind,
		UserID:    ev.UserID,
		DayID:     ev.DayID,
		FoodID:    ev.FoodID,
		Payload:   string(ev.Payload),
		CreatedAt: ev.OccurredAt,
	}
	if err := uc.activityStorage.SaveActivity(ctx, entry); err != nil {
		return domain.NewPersistenceError("Failed to record activity", err)
	}

	uc.logger.Debug("diary event recorded", "event_id", ev.ID, "kind", ev.Kind)
	return nil
}

func (uc *activityUseCase) ListUserActivity(ctx context.Context, userID uint) ([]domain.ActivityLog, error) {
	user, err := uc.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(msgUserNotFound)
	}

	entries, err := uc.activityStorage.ListActivityByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list activity", err)
	}
	return entries, nil
}
