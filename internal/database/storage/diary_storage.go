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

// DiaryStorage реализует ports.DiaryStorage с использованием GORM
type DiaryStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDiaryStorage(db *gorm.DB, logger *slog.Logger) *DiaryStorage {
	return &DiaryStorage{db: db, logger: logger}
}

// CreateDayWithFoods сохраняет день и все его продукты атомарно:
// при ошибке на любом продукте откатывается и день, и уже вставленные продукты.
func (s *DiaryStorage) CreateDayWithFoods(ctx context.Context, day *domain.Day) error {
	start := time.Now()

	foods := day.Foods
	day.Foods = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(day).Error; err != nil {
			return wrapWriteError("ошибка при создании дня", err)
		}
		for i := range foods {
			foods[i].DayID = day.ID
			if err := tx.Create(&foods[i]).Error; err != nil {
				return wrapWriteError(fmt.Sprintf("ошибка при создании продукта #%d", i), err)
			}
		}
		return nil
	})
	if err != nil {
		day.ID = 0
		for i := range foods {
			foods[i].ID = 0
			foods[i].DayID = 0
		}
		day.Foods = foods
		s.logger.Error("failed to create day with foods",
			"user_id", day.UserID,
			"date", day.Date,
			"foods", len(foods),
			"error", err,
		)
		return err
	}

	day.Foods = foods
	s.logger.Info("day created with foods",
		"day_id", day.ID,
		"user_id", day.UserID,
		"foods", len(foods),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetDayByID получает день вместе с продуктами
func (s *DiaryStorage) GetDayByID(ctx context.Context, id uint) (*domain.Day, error) {
	var day domain.Day
	err := s.db.WithContext(ctx).
		Preload("Foods", func(db *gorm.DB) *gorm.DB { return db.Order("foods.id ASC") }).
		First(&day, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("day not found by id", "day_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get day by id", "day_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении дня по ID: %w", err)
	}
	return &day, nil
}

// GetDayByUserAndDate ищет день пользователя по дате
func (s *DiaryStorage) GetDayByUserAndDate(ctx context.Context, userID uint, date string) (*domain.Day, error) {
	var day domain.Day
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to get day by user and date", "user_id", userID, "date", date, "error", err)
		return nil, fmt.Errorf("ошибка при получении дня по дате: %w", err)
	}
	return &day, nil
}

func (s *DiaryStorage) CreateFood(ctx context.Context, food *domain.Food) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		s.logger.Error("failed to create food", "day_id", food.DayID, "error", err)
		return wrapWriteError("ошибка при создании продукта", err)
	}

	s.logger.Info("food created",
		"food_id", food.ID,
		"day_id", food.DayID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *DiaryStorage) GetFoodByID(ctx context.Context, id uint) (*domain.Food, error) {
	var food domain.Food
	err := s.db.WithContext(ctx).First(&food, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("food not found by id", "food_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get food by id", "food_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении продукта по ID: %w", err)
	}
	return &food, nil
}

// UpdateFood перезаписывает все редактируемые поля продукта
func (s *DiaryStorage) UpdateFood(ctx context.Context, food *domain.Food) error {
	err := s.db.WithContext(ctx).
		Model(food).
		Select("Name", "Calories", "ServingSize", "ServingUnit", "Quantity", "TimeOfDay", "UpdatedAt").
		Updates(food).Error
	if err != nil {
		s.logger.Error("failed to update food", "food_id", food.ID, "error", err)
		return wrapWriteError("ошибка при обновлении продукта", err)
	}

	s.logger.Info("food updated", "food_id", food.ID)
	return nil
}

func (s *DiaryStorage) DeleteFood(ctx context.Context, food *domain.Food) error {
	if err := s.db.WithContext(ctx).Delete(food).Error; err != nil {
		s.logger.Error("failed to delete food", "food_id", food.ID, "error", err)
		return fmt.Errorf("ошибка при удалении продукта: %w", err)
	}

	s.logger.Info("food deleted", "food_id", food.ID)
	return nil
}

// ListFoods возвращает все продукты без фильтрации и пагинации
func (s *DiaryStorage) ListFoods(ctx context.Context) ([]domain.Food, error) {
	start := time.Now()

	var foods []domain.Food
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&foods).Error; err != nil {
		s.logger.Error("failed to list foods", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка продуктов: %w", err)
	}

	s.logger.Debug("listed foods",
		"count", len(foods),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return foods, nil
}
