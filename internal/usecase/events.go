package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
)

// eventEmitter публикует события после успешной записи.
// Ошибка публикации только логируется и не влияет на ответ клиенту.
type eventEmitter struct {
	publisher ports.DiaryEventPublisher
	logger    *slog.Logger
}

func newEventEmitter(publisher ports.DiaryEventPublisher, logger *slog.Logger) *eventEmitter {
	return &eventEmitter{publisher: publisher, logger: logger}
}

func (e *eventEmitter) enabled() bool {
	return e.publisher != nil
}

func (e *eventEmitter) emit(ctx context.Context, ev payloads.DiaryEvent) {
	if !e.enabled() {
		return
	}
	if err := e.publisher.PublishDiaryEvent(ctx, ev); err != nil {
		e.logger.Warn("failed to publish diary event", "event_id", ev.ID, "kind", ev.Kind, "error", err)
	}
}
