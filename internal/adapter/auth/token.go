package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "food-diary"

// Claims - полезная нагрузка access-токена
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTIssuer выпускает и проверяет HS256 токены с ограниченным сроком жизни
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue возвращает подписанный токен и момент его истечения
func (i *JWTIssuer) Issue(user *domain.User) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, expires, nil
}

// Parse проверяет подпись и срок действия токена
func (i *JWTIssuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
