package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"
	"github.com/GoArmGo/FoodDiary/internal/metrics"
	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

// eventHandler записывает событие дневника в журнал действий
func eventHandler(activityUseCase usecase.ActivityUseCase, logger *slog.Logger) func(context.Context, payloads.DiaryEvent) error {
	return func(ctx context.Context, ev payloads.DiaryEvent) error {
		err := activityUseCase.RecordEvent(ctx, ev)
		metrics.RecordEvent(ev.Kind, err == nil)
		if err != nil {
			logger.Error("worker: failed to record event", "event_id", ev.ID, "kind", ev.Kind, "error", err)
			return err
		}
		logger.Info("worker: event recorded", "event_id", ev.ID, "kind", ev.Kind)
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и ждет отмены ctx
func runWorker(
	ctx context.Context,
	activityUseCase usecase.ActivityUseCase,
	consumer ports.DiaryEventConsumer,
	logger *slog.Logger,
) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingDiaryEvents(workerCtx, eventHandler(activityUseCase, logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	logger.Info("worker started, waiting for diary events")
	<-ctx.Done()

	logger.Info("worker: shutdown signal received")
	return nil
}
