package usecase

import (
	"context"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/domain"
)

var registerMessages = fieldMessages{
	"Email":     "Email is required",
	"Password":  "Password is required",
	"FirstName": "First name is required",
	"LastName":  "Last name is required",
	"TOS":       "tos is required",
}

var loginMessages = fieldMessages{
	"Email":    "Missing email parameter",
	"Password": "Missing password parameter",
}

// RegisterInput - тело POST /register
type RegisterInput struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"fname" validate:"required"`
	LastName  string `json:"lname" validate:"required"`
	TOS       bool   `json:"tos" validate:"required"`
}

// LoginInput - тело POST /login
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult - ответ на успешный вход
type LoginResult struct {
	User      domain.UserView `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"` // unix ms
}

// TokenIssuer выпускает access-токен для пользователя
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// AccountUseCase определяет регистрацию и вход
type AccountUseCase interface {
	Register(ctx context.Context, in RegisterInput) error

	// Login возвращает одинаковую ошибку для неизвестного email и неверного пароля
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)

	// GetUser возвращает пользователя с дневником
	GetUser(ctx context.Context, userID uint) (*domain.User, error)
}
