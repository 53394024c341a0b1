package usecase

import (
	"context"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
)

// ActivityUseCase обрабатывает события из очереди и отдает журнал действий
type ActivityUseCase interface {
	// RecordEvent сохраняет событие в журнал, повторная доставка не создает дубликат
	RecordEvent(ctx context.Context, ev payloads.DiaryEvent) error

	ListUserActivity(ctx context.Context, userID uint) ([]domain.ActivityLog, error)
}
