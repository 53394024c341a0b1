package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/config"
	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client держит подключение к бд: sqlx для пула, пинга и миграций,
// GORM поверх того же *sql.DB для хранилищ.
type Client struct {
	DB     *sqlx.DB
	Gorm   *gorm.DB
	logger *slog.Logger
}

// NewClient инициализирует подключение согласно DATABASE_DRIVER и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	gormCfg := GormConfig(cfg.LogLevel)

	switch cfg.DatabaseDriver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL, gormCfg, logger)
	default:
		return NewPostgres(cfg.DatabaseURL, gormCfg, logger)
	}
}

// NewPostgres открывает PostgreSQL через sqlx, применяет golang-migrate миграции
// и поднимает GORM на том же пуле соединений.
func NewPostgres(dsn string, gormCfg *gorm.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	if err := applyMigrations(dsn, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), gormCfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Gorm: gdb, logger: logger}, nil
}

// NewSQLite открывает SQLite (локальная разработка и тесты) и мигрирует схему через AutoMigrate.
func NewSQLite(dsn string, gormCfg *gorm.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	gdb, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения *sql.DB: %w", err)
	}

	// один писатель: все запросы идут через одно соединение, PRAGMA на нём сохраняется
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ошибка включения foreign_keys: %w", err)
	}

	if err := AutoMigrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("SQLite database opened",
		"dsn", dsn,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: sqlx.NewDb(sqlDB, "sqlite3"), Gorm: gdb, logger: logger}, nil
}

// NewFromDB оборачивает уже открытое подключение (используется в тестах со sqlmock)
func NewFromDB(db *sqlx.DB, gdb *gorm.DB, logger *slog.Logger) *Client {
	return &Client{DB: db, Gorm: gdb, logger: logger}
}

// AutoMigrate создает схему по моделям GORM.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Day{},
		&domain.Food{},
		&domain.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping проверяет доступность бд, используется health-эндпоинтом
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.DB.PingContext(ctx); err != nil {
		c.logger.Warn("database ping failed", "error", err)
		return fmt.Errorf("бд недоступна: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// GormConfig возвращает общую конфигурацию GORM. TranslateError включён,
// чтобы нарушения уникальности приходили как gorm.ErrDuplicatedKey.
func GormConfig(logLevel string) *gorm.Config {
	lg := gormlogger.Default.LogMode(gormlogger.Silent)
	if logLevel == "debug" {
		lg = gormlogger.Default.LogMode(gormlogger.Info)
	}
	return &gorm.Config{
		Logger:         lg,
		TranslateError: true,
	}
}
