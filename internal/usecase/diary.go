package usecase

import (
	"context"

	"github.com/GoArmGo/FoodDiary/internal/domain"
)

const timeOfDayMsg = "Time_of_day must be 'morning', 'afternoon', or 'night'."

var foodMessages = fieldMessages{
	"Name":            "name is required",
	"Quantity":        "quantity is required",
	"Quantity.gt":     "quantity must be a positive number",
	"Quantity.finite": "quantity must be a finite number",
	"ServingSize":     "serving size is required",
	"ServingUnit":     "serving unit is required",
	"Calories":        "calories is required",
	"Calories.gt":     "calories must be a positive number",
	"Calories.finite": "calories must be a finite number",
	"TimeOfDay":       "time of day is required",
	"TimeOfDay.oneof": timeOfDayMsg,
	"DayID":           "day_id is required",
	"Foods":           "Array of Foods is required",
	"Date":            "Date is required",
	"Date.datetime":   "Date must be formatted as YYYY-MM-DD",
	"UserID":          "User ID is required",
}

// FoodInput - шесть обязательных полей продукта.
// Порядок полей задаёт порядок проверки.
type FoodInput struct {
	Name        string `json:"name" validate:"required"`
	Quantity    Amount `json:"quantity" validate:"required,finite,gt=0"`
	ServingSize string `json:"serving_size" validate:"required"`
	ServingUnit string `json:"serving_unit" validate:"required"`
	Calories    Amount `json:"calories" validate:"required,finite,gt=0"`
	TimeOfDay   string `json:"time_of_day" validate:"required,oneof=morning afternoon night"`
}

func (f FoodInput) validate() error {
	return validateInput(f, foodMessages)
}

func (f FoodInput) fields() domain.FoodFields {
	return domain.FoodFields{
		Name:        f.Name,
		Calories:    float64(f.Calories),
		ServingSize: f.ServingSize,
		ServingUnit: f.ServingUnit,
		Quantity:    float64(f.Quantity),
		TimeOfDay:   domain.TimeOfDay(f.TimeOfDay),
	}
}

// CreateDiaryEntryInput - тело POST /diary
type CreateDiaryEntryInput struct {
	Foods  []FoodInput `json:"foods" validate:"required,min=1"`
	Date   string      `json:"date" validate:"required,datetime=2006-01-02"`
	UserID uint        `json:"user_id" validate:"required"`
}

// AddFoodInput - тело POST /diary/food
type AddFoodInput struct {
	FoodInput
	DayID uint `json:"day_id" validate:"required"`
}

// DiaryUseCase определяет бизнес-логику дневника питания
type DiaryUseCase interface {
	// CreateDiaryEntry создаёт день и все его продукты одной транзакцией.
	// Одна невалидная позиция отклоняет всю запись.
	CreateDiaryEntry(ctx context.Context, in CreateDiaryEntryInput) (*domain.Day, error)

	// AddFoodToDay добавляет продукт к существующему дню
	AddFoodToDay(ctx context.Context, in AddFoodInput) (*domain.Food, error)

	// UpdateFood полностью заменяет шесть полей продукта
	UpdateFood(ctx context.Context, foodID uint, in FoodInput) (*domain.Food, error)

	DeleteFood(ctx context.Context, foodID uint) error

	// ListAllFoods возвращает все продукты без фильтрации
	ListAllFoods(ctx context.Context) ([]domain.Food, error)

	GetDay(ctx context.Context, dayID uint) (*domain.Day, error)
}
