package services

import (
	"context"
	"testing"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest(t *testing.T) (UserServiceInterface, *fakeUserRepo, *fakePermissionService) {
	t.Helper()
	userRepo := newFakeUserRepo()
	permissionService := &fakePermissionService{}
	svc := NewUserService(userRepo, permissionService, zap.NewNop())
	return svc, userRepo, permissionService
}

func TestUserService_CreateUser_АдминПолучаетПолныеПрава(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest(t)

	user, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email:    "admin@example.com",
		Fio:      "Каримов Д.Р.",
		Password: "strongpass123",
		Role:     authz.RoleAdmin,
	})
	require.NoError(t, err)

	// Роль admin не обходит проверки прав, поэтому полный набор
	// материализуется в карте явно.
	assert.True(t, user.Permissions[authz.ResourceUsers][authz.ActionAdmin])
	assert.True(t, user.Permissions[authz.ResourceEquipments][authz.ActionDelete])

	stored, err := userRepo.FindUserByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("strongpass123")))
}

func TestUserService_CreateUser_ViewerТолькоПросмотр(t *testing.T) {
	svc, _, _ := newUserServiceForTest(t)

	user, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email:    "viewer@example.com",
		Fio:      "Орлова Н.С.",
		Password: "strongpass123",
		Role:     authz.RoleViewer,
	})
	require.NoError(t, err)

	assert.True(t, user.Permissions[authz.ResourceEquipments][authz.ActionView])
	assert.False(t, user.Permissions[authz.ResourceEquipments][authz.ActionEdit])
	assert.False(t, user.Permissions[authz.ResourceUsers][authz.ActionAdmin])
}

func TestUserService_CreateUser_ДубликатEmail(t *testing.T) {
	svc, _, _ := newUserServiceForTest(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "dup@example.com", Fio: "Первый", Password: "strongpass123", Role: authz.RoleViewer,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "dup@example.com", Fio: "Второй", Password: "strongpass123", Role: authz.RoleViewer,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserService_CreateUser_КриваяКартаПрав(t *testing.T) {
	svc, _, _ := newUserServiceForTest(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email:    "custom@example.com",
		Fio:      "Сидоров А.А.",
		Password: "strongpass123",
		Role:     authz.RoleCustom,
		Permissions: map[string]map[string]bool{
			"starships": {"fly": true},
		},
	})
	var invalidInput *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalidInput)
	assert.Equal(t, "permissions", invalidInput.Field)
}

func TestUserService_UpdateUser_СменаРолиПересчитываетПрава(t *testing.T) {
	svc, _, permissionService := newUserServiceForTest(t)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "promote@example.com", Fio: "Рахимов З.М.", Password: "strongpass123", Role: authz.RoleViewer,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, dto.UpdateUserDTO{
		Role: null.StringFrom(authz.RoleAdmin),
	})
	require.NoError(t, err)

	assert.Equal(t, authz.RoleAdmin, updated.Role)
	assert.True(t, updated.Permissions[authz.ResourceUsers][authz.ActionAdmin])
	// Кеш прав сбрасывается, чтобы смена роли подействовала сразу.
	assert.Contains(t, permissionService.invalidated, created.ID)
}

func TestUserService_ChangeStatus_СбрасываетКешПрав(t *testing.T) {
	svc, _, permissionService := newUserServiceForTest(t)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "block@example.com", Fio: "Юсупова Г.Т.", Password: "strongpass123", Role: authz.RoleViewer,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(context.Background(), created.ID, "inactive"))
	assert.Contains(t, permissionService.invalidated, created.ID)

	found, err := svc.FindUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", found.Status)
}

func TestUserService_DeleteUser(t *testing.T) {
	svc, _, permissionService := newUserServiceForTest(t)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserDTO{
		Email: "gone@example.com", Fio: "Темиров Б.Б.", Password: "strongpass123", Role: authz.RoleViewer,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))
	assert.Contains(t, permissionService.invalidated, created.ID)

	_, err = svc.FindUser(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
