// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет зарегистрированного пользователя дневника.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey" db:"id"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex;not null" db:"email"`
	Password  string    `json:"-" gorm:"size:256;not null" db:"password"`
	FirstName string    `json:"first_name" gorm:"column:firstname;size:50;not null" db:"firstname"`
	LastName  string    `json:"last_name" gorm:"column:lastname;size:50;not null" db:"lastname"`
	TOS       bool      `json:"tos" gorm:"column:tos;not null" db:"tos"`
	IsActive  bool      `json:"is_active" gorm:"not null" db:"is_active"`
	Diary     []Day     `json:"diary,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// NewUser собирает активного пользователя. passwordHash должен быть уже захеширован.
func NewUser(email, passwordHash, firstName, lastName string, tos bool) *User {
	return &User{
		Email:     email,
		Password:  passwordHash,
		FirstName: firstName,
		LastName:  lastName,
		TOS:       tos,
		IsActive:  true,
	}
}

// UserView - публичное представление пользователя, пароль не сериализуется никогда.
type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Diary     []DayView `json:"diary"`
}

// Serialize возвращает пользователя вместе со всеми загруженными днями дневника.
func (u *User) Serialize() UserView {
	diary := make([]DayView, 0, len(u.Diary))
	for i := range u.Diary {
		diary = append(diary, u.Diary[i].Serialize())
	}
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Diary:     diary,
	}
}
