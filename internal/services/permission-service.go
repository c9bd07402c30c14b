package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PermissionService отдаёт пользователя вместе с картой прав для
// аутентификации запросов. Горячий путь, поэтому результат кешируется
// в Redis; кеш сбрасывается при любом изменении пользователя.
type PermissionServiceInterface interface {
	GetUserWithPermissions(ctx context.Context, userID uint64) (*entities.User, error)
	InvalidateUser(ctx context.Context, userID uint64)
}

type PermissionService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewPermissionService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) PermissionServiceInterface {
	return &PermissionService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func userCacheKey(userID uint64) string {
	return fmt.Sprintf("user_perms:%d", userID)
}

type cachedUser struct {
	ID          uint64                     `json:"id"`
	Email       string                     `json:"email"`
	Fio         string                     `json:"fio"`
	Role        string                     `json:"role"`
	Status      string                     `json:"status"`
	Permissions map[string]map[string]bool `json:"permissions"`
}

func (s *PermissionService) GetUserWithPermissions(ctx context.Context, userID uint64) (*entities.User, error) {
	key := userCacheKey(userID)

	if raw, err := s.cacheRepo.Get(ctx, key); err == nil && raw != "" {
		if user, err := s.decodeCached(raw); err == nil {
			return user, nil
		}
		// Битый кеш — идём в базу и перезапишем.
		s.logger.Warn("Не удалось декодировать кеш пользователя", zap.Uint64("userID", userID))
	} else if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("Redis недоступен, читаем пользователя из базы", zap.Error(err))
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	s.storeInCache(ctx, key, user)
	return user, nil
}

func (s *PermissionService) InvalidateUser(ctx context.Context, userID uint64) {
	if err := s.cacheRepo.Del(ctx, userCacheKey(userID)); err != nil {
		s.logger.Warn("Не удалось сбросить кеш пользователя",
			zap.Uint64("userID", userID), zap.Error(err))
	}
}

func (s *PermissionService) decodeCached(raw string) (*entities.User, error) {
	var cu cachedUser
	if err := json.Unmarshal([]byte(raw), &cu); err != nil {
		return nil, err
	}
	perms, err := authz.ParsePermissionSet(cu.Permissions)
	if err != nil {
		return nil, err
	}
	return &entities.User{
		ID:          cu.ID,
		Email:       cu.Email,
		Fio:         cu.Fio,
		Role:        cu.Role,
		Status:      cu.Status,
		Permissions: perms,
	}, nil
}

func (s *PermissionService) storeInCache(ctx context.Context, key string, user *entities.User) {
	perms := make(map[string]map[string]bool, len(user.Permissions))
	for resource, rp := range user.Permissions {
		perms[resource] = map[string]bool{
			"view":   rp.View,
			"edit":   rp.Edit,
			"delete": rp.Delete,
			"admin":  rp.Admin,
		}
	}
	payload, err := json.Marshal(cachedUser{
		ID:          user.ID,
		Email:       user.Email,
		Fio:         user.Fio,
		Role:        user.Role,
		Status:      user.Status,
		Permissions: perms,
	})
	if err != nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("Не удалось записать кеш пользователя", zap.Error(err))
	}
}
