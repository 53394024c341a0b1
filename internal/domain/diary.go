package domain

import (
	"time"
)

// DateLayout - формат календарной даты дня дневника.
const DateLayout = "2006-01-02"

// TimeOfDay классифицирует приём пищи.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Night     TimeOfDay = "night"
)

// Valid сообщает, входит ли значение в допустимый набор.
func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Afternoon, Night:
		return true
	}
	return false
}

// Day - запись дневника за одну календарную дату,
// соответствует таблице days в бд. Пара (user_id, date) уникальна.
type Day struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"size:100;not null;uniqueIndex:idx_days_user_date"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_days_user_date"`
	Foods     []Food    `json:"foods,omitempty" gorm:"foreignKey:DayID"`
	CreatedAt time.Time `json:"created_at"`
}

func (Day) TableName() string {
	return "days"
}

func NewDay(userID uint, date string) *Day {
	return &Day{UserID: userID, Date: date}
}

type DayView struct {
	ID     uint       `json:"id"`
	Date   string     `json:"date"`
	UserID uint       `json:"user_id"`
	Foods  []FoodView `json:"foods"`
}

func (d *Day) Serialize() DayView {
	foods := make([]FoodView, 0, len(d.Foods))
	for i := range d.Foods {
		foods = append(foods, d.Foods[i].Serialize())
	}
	return DayView{
		ID:     d.ID,
		Date:   d.Date,
		UserID: d.UserID,
		Foods:  foods,
	}
}

// Food - один съеденный продукт, соответствует таблице foods в бд.
type Food struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null"`
	Calories    float64   `json:"calories" gorm:"not null"`
	ServingSize string    `json:"serving_size" gorm:"size:120;not null"`
	ServingUnit string    `json:"serving_unit" gorm:"size:50;not null"`
	Quantity    float64   `json:"quantity" gorm:"not null"`
	TimeOfDay   TimeOfDay `json:"time_of_day" gorm:"size:16;not null;default:morning"`
	DayID       uint      `json:"day_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Food) TableName() string {
	return "foods"
}

// FoodFields - набор из шести редактируемых полей продукта.
type FoodFields struct {
	Name        string
	Calories    float64
	ServingSize string
	ServingUnit string
	Quantity    float64
	TimeOfDay   TimeOfDay
}

func NewFood(dayID uint, f FoodFields) *Food {
	food := &Food{DayID: dayID}
	food.Apply(f)
	return food
}

// Apply заменяет все шесть полей продукта целиком.
func (f *Food) Apply(fields FoodFields) {
	f.Name = fields.Name
	f.Calories = fields.Calories
	f.ServingSize = fields.ServingSize
	f.ServingUnit = fields.ServingUnit
	f.Quantity = fields.Quantity
	f.TimeOfDay = fields.TimeOfDay
}

type FoodView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Calories    float64   `json:"calories"`
	ServingSize string    `json:"serving_size"`
	ServingUnit string    `json:"serving_unit"`
	Quantity    float64   `json:"quantity"`
	TimeOfDay   TimeOfDay `json:"time_of_day"`
	DayID       uint      `json:"day_id"`
}

func (f *Food) Serialize() FoodView {
	return FoodView{
		ID:          f.ID,
		Name:        f.Name,
		Calories:    f.Calories,
		ServingSize: f.ServingSize,
		ServingUnit: f.ServingUnit,
		Quantity:    f.Quantity,
		TimeOfDay:   f.TimeOfDay,
		DayID:       f.DayID,
	}
}

// SerializeFoods сериализует список продуктов, пустой список остаётся пустым массивом.
func SerializeFoods(foods []Food) []FoodView {
	out := make([]FoodView, 0, len(foods))
	for i := range foods {
		out = append(out, foods[i].Serialize())
	}
	return out
}
