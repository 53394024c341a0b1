package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityStorage пишет журнал действий дневника
type ActivityStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewActivityStorage(db *gorm.DB, logger *slog.Logger) *ActivityStorage {
	return &ActivityStorage{db: db, logger: logger}
}

// SaveActivity сохраняет запись. Повторная доставка того же события игнорируется.
func (s *ActivityStorage) SaveActivity(ctx context.Context, entry *domain.ActivityLog) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(entry)
	if res.Error != nil {
		s.logger.Error("failed to save activity", "event_id", entry.EventID, "kind", entry.Kind, "error", res.Error)
		return wrapWriteError("ошибка при сохранении журнала действий", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Info("activity already recorded", "event_id", entry.EventID)
		return nil
	}

	s.logger.Info("activity saved", "event_id", entry.EventID, "kind", entry.Kind)
	return nil
}

// ListActivityByUser возвращает журнал пользователя от новых к старым
func (s *ActivityStorage) ListActivityByUser(ctx context.Context, userID uint) ([]domain.ActivityLog, error) {
	var entries []domain.ActivityLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		s.logger.Error("failed to list activity", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при чтении журнала действий: %w", err)
	}
	return entries, nil
}
