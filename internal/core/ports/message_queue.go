package ports

import (
	"context"

	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
)

// DiaryEventPublisher публикует события дневника.
// Этот интерфейс используется сервисами после успешной записи в бд
type DiaryEventPublisher interface {
	PublishDiaryEvent(ctx context.Context, event payloads.DiaryEvent) error
}

// DiaryEventConsumer определяет методы для потребления событий дневника
// будет использоваться воркером для получения задач из очереди
type DiaryEventConsumer interface {
	// StartConsumingDiaryEvents начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingDiaryEvents(ctx context.Context, handler func(context.Context, payloads.DiaryEvent) error) error
}
