package di

import (
	"context"
	"io"

	"github.com/GoArmGo/FoodDiary/internal/adapter/auth"
	"github.com/GoArmGo/FoodDiary/internal/adapter/storage/minio"
	"github.com/GoArmGo/FoodDiary/internal/app"
	"github.com/GoArmGo/FoodDiary/internal/config"
	"github.com/GoArmGo/FoodDiary/internal/core/ports"
	"github.com/GoArmGo/FoodDiary/internal/database/client"
	"github.com/GoArmGo/FoodDiary/internal/database/storage"
	"github.com/GoArmGo/FoodDiary/internal/handler"
	"github.com/GoArmGo/FoodDiary/internal/logger"
	"github.com/GoArmGo/FoodDiary/internal/rabbitmq"
	"github.com/GoArmGo/FoodDiary/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Подключение к бд и миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{dbClient}

	// при ошибке ниже закрываем уже открытое
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 3. Инициализация хранилищ
	userStorage := storage.NewUserStorage(dbClient.Gorm, slogger)
	diaryStorage := storage.NewDiaryStorage(dbClient.Gorm, slogger)
	activityStorage := storage.NewActivityStorage(dbClient.Gorm, slogger)

	// 4. RabbitMQ опционален
	var (
		publisher ports.DiaryEventPublisher
		consumer  ports.DiaryEventConsumer
	)
	if cfg.RabbitMQEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg.RabbitMQ, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rabbitMQClient)
		publisher, consumer = rabbitMQClient, rabbitMQClient
	} else {
		slogger.Warn("RABBITMQ_URL not set, diary events will not be published")
	}

	// 5. MinIO опционален, без него маршрут бэкапа не монтируется
	var fileStorage ports.FileStorage
	if cfg.MinioEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		fileStorage = minioClient
	}

	// 6. Бизнес-логика
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	accountUseCase := usecase.NewAccountUseCase(userStorage, auth.NewBcryptHasher(cfg.BcryptCost), tokens, publisher, slogger)
	diaryUseCase := usecase.NewDiaryUseCase(userStorage, diaryStorage, publisher, slogger)
	activityUseCase := usecase.NewActivityUseCase(userStorage, activityStorage, slogger)

	var backupUseCase usecase.BackupUseCase
	if fileStorage != nil {
		backupUseCase = usecase.NewBackupUseCase(userStorage, fileStorage, cfg.BackupRetention, slogger)
	}

	// 7. HTTP-обработчики
	handlers := app.Handlers{
		Account: handler.NewAccountHandler(accountUseCase, slogger),
		Diary:   handler.NewDiaryHandler(diaryUseCase, slogger),
		User:    handler.NewUserHandler(accountUseCase, activityUseCase, backupUseCase, slogger),
		Health:  handler.NewHealthHandler(dbClient, slogger),
		Tokens:  tokens,
	}

	application := app.NewApp(cfg, slogger, handlers, activityUseCase, consumer, closers...)

	slogger.Info("all dependencies initialized",
		"database_driver", cfg.DatabaseDriver,
		"rabbitmq", cfg.RabbitMQEnabled(),
		"minio", cfg.MinioEnabled(),
	)
	return application, nil
}
