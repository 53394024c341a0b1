package auth

import (
	"testing"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("x")
	require.NoError(t, err)
	assert.NotEqual(t, "x", hashed)

	again, err := h.Hash("x")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salt should differ")

	assert.True(t, h.Compare(hashed, "x"))
	assert.False(t, h.Compare(hashed, "y"))
	assert.False(t, h.Compare("not-a-hash", "x"))
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", 7*24*time.Hour)
	user := &domain.User{ID: 42, Email: "a@b.com"}

	before := time.Now()
	token, expires, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), expires, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTIssuer_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTIssuer("one", time.Hour).Issue(&domain.User{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	_, err = NewJWTIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.Issue(&domain.User{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
