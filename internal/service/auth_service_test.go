package service

import (
	"context"
	"testing"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	res, err := svc.Register(ctx, dto.RegisterInput{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "Bearer", res.TokenType)
	require.Equal(t, model.RoleUser, res.User.Role.Name)
	require.Empty(t, res.User.PasswordHash)

	login, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "secret123", DisplayName: "Bob",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterInput{
		Username: "bob2", Email: "bob@example.com", Password: "secret123", DisplayName: "Bob",
	})
	require.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Register(ctx, dto.RegisterInput{
		Username: "bob", Email: "bob2@example.com", Password: "secret123", DisplayName: "Bob",
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLoginSuspendedAccount(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "secret123", DisplayName: "Carol",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.User{}).
		Where("email = ?", "carol@example.com").
		Update("status", model.StatusSuspended).Error)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "carol@example.com", Password: "secret123"})
	require.ErrorIs(t, err, apperror.ErrForbidden)
}
