package storage

import (
	"errors"
	"fmt"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"gorm.io/gorm"
)

// wrapWriteError оборачивает ошибку записи; нарушение уникальности
// дополнительно помечается как domain.ErrConflict.
func wrapWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
