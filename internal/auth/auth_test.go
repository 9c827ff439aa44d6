package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/models"
)

type memoryUsers struct {
	byEmail map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(&memoryUsers{byEmail: map[string]*models.User{}})

	user, err := a.Register(ctx, Registration{Email: " Anna@Kanzlei.de ", Name: " Anna Schmidt ", Password: "geheim123"})
	require.NoError(t, err)
	assert.Equal(t, "anna@kanzlei.de", user.Email)
	assert.Equal(t, "Anna Schmidt", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "geheim123", user.PasswordHash)

	invalid := []struct {
		name string
		reg  Registration
		want error
	}{
		{"duplicate email", Registration{Email: "anna@kanzlei.de", Name: "Anna", Password: "geheim123"}, ErrEmailExists},
		{"weak password", Registration{Email: "max@kanzlei.de", Name: "Max", Password: "kurz"}, ErrWeakPassword},
		{"long password", Registration{Email: "max@kanzlei.de", Name: "Max", Password: strings.Repeat("x", 73)}, ErrPasswordTooLong},
		{"unknown role", Registration{Email: "max@kanzlei.de", Name: "Max", Password: "geheim123", Role: "partner"}, ErrInvalidRole},
		{"empty email", Registration{Name: "Max", Password: "geheim123"}, ErrInvalidEmail},
		{"email without domain", Registration{Email: "max@", Name: "Max", Password: "geheim123"}, ErrInvalidEmail},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.reg)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("advisor role", func(t *testing.T) {
		advisor, err := a.Register(ctx, Registration{Email: "max@kanzlei.de", Name: "Max Weber", Password: "geheim123", Role: models.RoleAdvisor})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdvisor, advisor.Role)
	})

	t.Run("authenticate", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ANNA@kanzlei.de", "geheim123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = a.Authenticate(ctx, "anna@kanzlei.de", "falsch123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = a.Authenticate(ctx, "nobody@kanzlei.de", "geheim123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("anna@kanzlei.de", "Anna Schmidt", "hash")
	user.Role = models.RoleAdmin
	user.Language = "en"

	m := NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "Anna Schmidt", claims.Name)
	assert.Equal(t, "en", claims.Language)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "elsewhere",
				Subject:   user.ID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.Validate(foreign)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			UserID:           user.ID,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: user.ID},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Validate(none)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
