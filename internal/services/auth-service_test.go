package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest(t *testing.T) (AuthServiceInterface, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, zap.NewNop())
	svc := NewAuthService(userRepo, jwtSvc, zap.NewNop())
	return svc, userRepo
}

func seedAuthUser(t *testing.T, userRepo *fakeUserRepo, email, password, status string) uint64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id, err := userRepo.CreateUser(context.Background(), &entities.User{
		Email:        email,
		Fio:          "Назаров У.К.",
		PasswordHash: string(hash),
		Role:         authz.RoleViewer,
		Status:       status,
		Permissions:  authz.ViewOnlyPermissionSet(),
	})
	require.NoError(t, err)
	return id
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo := newAuthServiceForTest(t)
	seedAuthUser(t, userRepo, "user@example.com", "correct-password", entities.UserStatusActive)

	resp, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "user@example.com", Password: "correct-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.True(t, resp.User.Permissions[authz.ResourceEquipments][authz.ActionView])
}

func TestAuthService_Login_НеверныеДанные(t *testing.T) {
	svc, userRepo := newAuthServiceForTest(t)
	seedAuthUser(t, userRepo, "user@example.com", "correct-password", entities.UserStatusActive)

	// Неверный пароль и несуществующий email дают одну и ту же ошибку,
	// чтобы по ответу нельзя было перебирать адреса.
	_, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "user@example.com", Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginDTO{
		Email: "nobody@example.com", Password: "correct-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_ЗаблокированныйПользователь(t *testing.T) {
	svc, userRepo := newAuthServiceForTest(t)
	seedAuthUser(t, userRepo, "blocked@example.com", "correct-password", entities.UserStatusInactive)

	_, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "blocked@example.com", Password: "correct-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserInactive)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, userRepo := newAuthServiceForTest(t)
	seedAuthUser(t, userRepo, "user@example.com", "correct-password", entities.UserStatusActive)

	resp, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "user@example.com", Password: "correct-password",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Access-токен в качестве refresh не принимается.
	_, err = svc.Refresh(context.Background(), resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}

func TestAuthService_Refresh_МусорВместоТокена(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
