package ports

import (
	"context"

	"github.com/GoArmGo/FoodDiary/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Отсутствующая запись возвращается как (nil, nil).
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetUserByID возвращает пользователя вместе с днями дневника и продуктами
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
}

// DiaryStorage определяет методы для работы с днями дневника и продуктами.
// Отсутствующая запись возвращается как (nil, nil).
type DiaryStorage interface {
	// CreateDayWithFoods сохраняет день и все его продукты в одной транзакции
	CreateDayWithFoods(ctx context.Context, day *domain.Day) error
	GetDayByID(ctx context.Context, id uint) (*domain.Day, error)
	GetDayByUserAndDate(ctx context.Context, userID uint, date string) (*domain.Day, error)

	CreateFood(ctx context.Context, food *domain.Food) error
	GetFoodByID(ctx context.Context, id uint) (*domain.Food, error)
	UpdateFood(ctx context.Context, food *domain.Food) error
	DeleteFood(ctx context.Context, food *domain.Food) error
	ListFoods(ctx context.Context) ([]domain.Food, error)
}

// ActivityStorage хранит журнал действий, который наполняет воркер
type ActivityStorage interface {
	SaveActivity(ctx context.Context, entry *domain.ActivityLog) error
	ListActivityByUser(ctx context.Context, userID uint) ([]domain.ActivityLog, error)
}
