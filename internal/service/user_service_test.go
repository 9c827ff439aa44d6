package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, models.RoleUser)
	ctx := context.Background()
	anonymous := api.NewUserServiceClient(env.server.Client(), env.server.URL)

	reg, err := anonymous.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "Max.Weber@Kanzlei.de",
		Name:     "Max Weber",
		Password: testPassword,
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "max.weber@kanzlei.de", reg.Msg.User.Email)
	assert.Equal(t, models.RoleUser, reg.Msg.User.Role)
	assert.Equal(t, models.DefaultLanguage, reg.Msg.User.Language)

	claims, err := env.jwt.Validate(reg.Msg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.User.ID, claims.UserID)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := anonymous.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "max.weber@kanzlei.de", Name: "Max", Password: testPassword,
		}))
		assertCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := anonymous.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "kurz@kanzlei.de", Name: "Kurz", Password: "123",
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := anonymous.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "anon@kanzlei.de", Password: testPassword,
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := anonymous.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "max.weber@kanzlei.de",
			Password: testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, reg.Msg.User.ID, resp.Msg.User.ID)
		assert.NotEmpty(t, resp.Msg.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := anonymous.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "max.weber@kanzlei.de",
			Password: "falsch123",
		}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := anonymous.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "niemand@kanzlei.de",
			Password: testPassword,
		}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t, models.RoleAdvisor)
	ctx := context.Background()

	resp, err := env.users.GetCurrentUser(ctx, connect.NewRequest(&api.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, resp.Msg.User.ID)
	assert.Equal(t, models.RoleAdvisor, resp.Msg.User.Role)

	users, err := env.users.ListUsers(ctx, connect.NewRequest(&api.Empty{}))
	require.NoError(t, err)
	require.Len(t, users.Msg.Users, 1)

	anonymous := api.NewUserServiceClient(env.server.Client(), env.server.URL)
	_, err = anonymous.GetCurrentUser(ctx, connect.NewRequest(&api.Empty{}))
	assertCode(t, connect.CodeUnauthenticated, err)
	_, err = anonymous.ListUsers(ctx, connect.NewRequest(&api.Empty{}))
	assertCode(t, connect.CodeUnauthenticated, err)

	forged := api.NewUserServiceClient(env.server.Client(), env.server.URL,
		connect.WithInterceptors(withToken("not-a-token")))
	_, err = forged.GetSettings(ctx, connect.NewRequest(&api.Empty{}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("name and language", func(t *testing.T) {
		env := newTestEnv(t, models.RoleUser)
		name := "Anna Schmidt-Weber"
		lang := "en"
		resp, err := env.users.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{
			Name:     &name,
			Language: &lang,
		}))
		require.NoError(t, err)
		assert.Equal(t, name, resp.Msg.User.Name)
		assert.Equal(t, "en", resp.Msg.User.Language)

		got, err := env.users.GetSettings(ctx, connect.NewRequest(&api.Empty{}))
		require.NoError(t, err)
		assert.Equal(t, name, got.Msg.User.Name)
		assert.Equal(t, "en", got.Msg.User.Language)
	})

	t.Run("unsupported language", func(t *testing.T) {
		env := newTestEnv(t, models.RoleUser)
		lang := "fr"
		_, err := env.users.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Language: &lang}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("only admins change roles", func(t *testing.T) {
		env := newTestEnv(t, models.RoleUser)
		role := models.RoleAdmin
		_, err := env.users.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Role: &role}))
		assertCode(t, connect.CodePermissionDenied, err)

		same := models.RoleUser
		_, err = env.users.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Role: &same}))
		require.NoError(t, err, "keeping the current role is allowed")
	})

	t.Run("admin changes role", func(t *testing.T) {
		env := newTestEnv(t, models.RoleAdmin)
		role := models.RoleAdvisor
		resp, err := env.users.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Role: &role}))
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdvisor, resp.Msg.User.Role)
	})
}
