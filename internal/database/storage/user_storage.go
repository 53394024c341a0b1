package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"gorm.io/gorm"
)

// UserStorage реализует интерфейс ports.UserStorage с использованием GORM
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return wrapWriteError("ошибка при создании пользователя", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail ищет пользователя по email
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("user not found by email", "email", email)
			return nil, nil
		}
		s.logger.Error("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}
	return &user, nil
}

// GetUserByID получает пользователя по ID вместе с днями дневника и их продуктами
func (s *UserStorage) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := s.db.WithContext(ctx).
		Preload("Diary", func(db *gorm.DB) *gorm.DB { return db.Order("days.date ASC") }).
		Preload("Diary.Foods", func(db *gorm.DB) *gorm.DB { return db.Order("foods.id ASC") }).
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}

	s.logger.Debug("user retrieved by id",
		"user_id", id,
		"days", len(user.Diary),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
