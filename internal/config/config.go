package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseDriver string        `env:"DATABASE_DRIVER"` // postgres или sqlite
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	JWTTTL     time.Duration `env:"JWT_TTL"`
	BcryptCost int           `env:"BCRYPT_COST"`

	// Настройки для MinIO, бэкапы включаются только если задан endpoint
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"diary-backups"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// сколько последних бэкапов хранить на пользователя
	BackupRetention int `env:"BACKUP_RETENTION"`

	// RabbitMQ опционален: без URL события дневника не публикуются
	RabbitMQ RabbitMQ
}

// RabbitMQ - подключение к брокеру и имя очереди событий
type RabbitMQ struct {
	RabbitMQURL       string `env:"RABBITMQ_URL"`
	RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"diary_events"`
}

// MinioEnabled сообщает, настроено ли объектное хранилище.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

// RabbitMQEnabled сообщает, настроен ли брокер сообщений.
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults вручную устанавливает значения по умолчанию для пустых полей
func (c *Config) applyDefaults() {
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = "postgres"
	}
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.JWTTTL <= 0 {
		c.JWTTTL = 7 * 24 * time.Hour
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	if c.BackupRetention <= 0 {
		c.BackupRetention = 5
	}
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("неизвестный DATABASE_DRIVER: %q (используйте 'postgres' или 'sqlite')", c.DatabaseDriver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST должен быть в диапазоне 4..31, получено %d", c.BcryptCost)
	}
	if c.MinioEnabled() && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY_ID и MINIO_SECRET_ACCESS_KEY обязательны при заданном MINIO_ENDPOINT")
	}
	return nil
}
