package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/FoodDiary/internal/config"
	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

type App struct {
	Config   *config.Config
	logger   *slog.Logger
	handlers Handlers

	activityUseCase usecase.ActivityUseCase
	eventConsumer   ports.DiaryEventConsumer

	// закрываются в обратном порядке при Shutdown
	closers []io.Closer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	handlers Handlers,
	activityUseCase usecase.ActivityUseCase,
	eventConsumer ports.DiaryEventConsumer,
	closers ...io.Closer,
) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		handlers:        handlers,
		activityUseCase: activityUseCase,
		eventConsumer:   eventConsumer,
		closers:         closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в режиме server или worker и блокируется
// до SIGINT/SIGTERM или отмены ctx.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.handlers, a.logger)
	case "worker":
		if a.eventConsumer == nil {
			err = errors.New("режим worker требует RABBITMQ_URL")
			break
		}
		err = runWorker(ctx, a.activityUseCase, a.eventConsumer, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
