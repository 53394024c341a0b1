package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog - запись журнала действий, которую воркер пишет по каждому событию дневника.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;uniqueIndex;not null"`
	Kind      string    `json:"kind" gorm:"size:40;not null"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	DayID     *uint     `json:"day_id,omitempty"`
	FoodID    *uint     `json:"food_id,omitempty"`
	Payload   string    `json:"payload" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
