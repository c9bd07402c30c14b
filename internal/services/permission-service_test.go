package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCacheRepo — кеш в памяти; getErr позволяет имитировать недоступный Redis.
type fakeCacheRepo struct {
	data    map[string]string
	getErr  error
	gets    int
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{data: make(map[string]string)}
}

func (c *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return "", redis.Nil
	}
	return raw, nil
}

func (c *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.deleted = append(c.deleted, key)
		delete(c.data, key)
	}
	return nil
}

func (c *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (c *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

func seedPermissionUser(t *testing.T, userRepo *fakeUserRepo) uint64 {
	t.Helper()
	id, err := userRepo.CreateUser(context.Background(), &entities.User{
		Email:       "cached@example.com",
		Fio:         "Алиев Ш.Н.",
		Role:        authz.RoleViewer,
		Status:      entities.UserStatusActive,
		Permissions: authz.ViewOnlyPermissionSet(),
	})
	require.NoError(t, err)
	return id
}

func TestPermissionService_GetUserWithPermissions_КешируетПосещение(t *testing.T) {
	userRepo := newFakeUserRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewPermissionService(userRepo, cacheRepo, time.Minute, zap.NewNop())
	id := seedPermissionUser(t, userRepo)

	first, err := svc.GetUserWithPermissions(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, first.Permissions.Has(authz.ResourceEquipments, authz.ActionView))

	// Второй вызов отдаётся из кеша даже после удаления записи из базы.
	require.NoError(t, userRepo.DeleteUser(context.Background(), id))
	second, err := svc.GetUserWithPermissions(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 2, cacheRepo.gets)
}

func TestPermissionService_GetUserWithPermissions_БитыйКеш(t *testing.T) {
	userRepo := newFakeUserRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewPermissionService(userRepo, cacheRepo, time.Minute, zap.NewNop())
	id := seedPermissionUser(t, userRepo)

	cacheRepo.data[userCacheKey(id)] = "{мусор"

	user, err := svc.GetUserWithPermissions(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "cached@example.com", user.Email)
	// Битая запись перезаписана валидной.
	assert.NotEqual(t, "{мусор", cacheRepo.data[userCacheKey(id)])
}

func TestPermissionService_GetUserWithPermissions_RedisНедоступен(t *testing.T) {
	userRepo := newFakeUserRepo()
	cacheRepo := newFakeCacheRepo()
	cacheRepo.getErr = assert.AnError
	svc := NewPermissionService(userRepo, cacheRepo, time.Minute, zap.NewNop())
	id := seedPermissionUser(t, userRepo)

	user, err := svc.GetUserWithPermissions(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func TestPermissionService_GetUserWithPermissions_НетПользователя(t *testing.T) {
	svc := NewPermissionService(newFakeUserRepo(), newFakeCacheRepo(), time.Minute, zap.NewNop())

	_, err := svc.GetUserWithPermissions(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestPermissionService_InvalidateUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewPermissionService(userRepo, cacheRepo, time.Minute, zap.NewNop())
	id := seedPermissionUser(t, userRepo)

	_, err := svc.GetUserWithPermissions(context.Background(), id)
	require.NoError(t, err)

	svc.InvalidateUser(context.Background(), id)
	assert.Contains(t, cacheRepo.deleted, userCacheKey(id))
	assert.Empty(t, cacheRepo.data)
}
