package payloads

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Виды событий дневника.
const (
	EventUserRegistered = "user.registered"
	EventDayCreated     = "day.created"
	EventFoodCreated    = "food.created"
	EventFoodUpdated    = "food.updated"
	EventFoodDeleted    = "food.deleted"
)

// DiaryEvent представляет изменение в дневнике, которое публикуется в RabbitMQ
// и потребляется воркером.
type DiaryEvent struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	UserID     *uint           `json:"user_id,omitempty"`
	DayID      *uint           `json:"day_id,omitempty"`
	FoodID     *uint           `json:"food_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewDiaryEvent создает событие с новым ID. payload маршалится в JSON,
// ошибка маршалинга оставляет payload пустым.
func NewDiaryEvent(kind string, payload any) DiaryEvent {
	ev := DiaryEvent{
		ID:         uuid.New(),
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			ev.Payload = raw
		}
	}
	return ev
}

func (e DiaryEvent) WithUser(id uint) DiaryEvent {
	e.UserID = &id
	return e
}

func (e DiaryEvent) WithDay(id uint) DiaryEvent {
	e.DayID = &id
	return e
}

func (e DiaryEvent) WithFood(id uint) DiaryEvent {
	e.FoodID = &id
	return e
}
