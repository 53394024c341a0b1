package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/config"
	"github.com/GoArmGo/FoodDiary/internal/handler"
	"github.com/GoArmGo/FoodDiary/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 30 * time.Second

// Handlers - все HTTP-обработчики, которые монтирует роутер
type Handlers struct {
	Account *handler.AccountHandler
	Diary   *handler.DiaryHandler
	User    *handler.UserHandler
	Health  *handler.HealthHandler
	Tokens  handler.TokenParser
}

// NewRouter собирает chi-роутер со всеми маршрутами
func NewRouter(h Handlers, requestTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if h.Tokens != nil {
		r.Use(handler.Authenticate(h.Tokens, logger))
	}
	r.Use(handler.RequestLogger(logger))
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/register", h.Account.Register)
	r.Post("/login", h.Account.Login)

	r.Route("/diary", func(r chi.Router) {
		r.Post("/", h.Diary.CreateDiaryEntry)
		r.Post("/food", h.Diary.AddFood)
		// статический /food/all должен победить {day_id}
		r.Get("/food/all", h.Diary.ListAllFoods)
		r.Put("/food/{food_id}", h.Diary.UpdateOrDeleteFood)
		r.Delete("/food/{food_id}", h.Diary.UpdateOrDeleteFood)
		r.Get("/{day_id}", h.Diary.GetDay)
	})

	r.Route("/users/{user_id}", func(r chi.Router) {
		r.Get("/", h.User.GetUser)
		r.Get("/activity", h.User.ListActivity)
		if h.User.BackupEnabled() {
			r.Post("/backup", h.User.Backup)
		}
	})

	r.Get("/healthz", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// runServer запускает HTTP сервер и останавливает его по отмене ctx
func runServer(ctx context.Context, cfg *config.Config, h Handlers, logger *slog.Logger) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           NewRouter(h, cfg.RequestTimeout, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
