package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	ChangeStatus(ctx context.Context, id uint64, status string) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo          repositories.UserRepositoryInterface
	permissionService PermissionServiceInterface
	logger            *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	permissionService PermissionServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:          userRepo,
		permissionService: permissionService,
		logger:            logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, MapUserToDTO(&users[i]))
	}
	return result, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := MapUserToDTO(user)
	return &result, nil
}

// permissionsForRole подбирает карту прав по роли: admin и viewer получают
// предопределённые наборы, custom — ровно то, что прислали (с валидацией).
func permissionsForRole(role string, raw map[string]map[string]bool) (authz.PermissionSet, error) {
	switch role {
	case authz.RoleAdmin:
		return authz.FullPermissionSet(), nil
	case authz.RoleViewer:
		return authz.ViewOnlyPermissionSet(), nil
	default:
		if raw == nil {
			return authz.PermissionSet{}, nil
		}
		set, err := authz.ParsePermissionSet(raw)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("permissions", "%v", err)
		}
		return set, nil
	}
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.ErrConflict
	}

	perms, err := permissionsForRole(payload.Role, payload.Permissions)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        payload.Email,
		Fio:          payload.Fio,
		PasswordHash: string(hash),
		Role:         payload.Role,
		Status:       entities.UserStatusActive,
		Permissions:  perms,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Пользователь создан", zap.Uint64("userID", id), zap.String("role", user.Role))

	return s.FindUser(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	utils.PatchString(&user.Email, payload.Email)
	utils.PatchString(&user.Fio, payload.Fio)
	roleChanged := utils.PatchString(&user.Role, payload.Role)

	if payload.Password.Valid && payload.Password.String != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password.String), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if payload.Permissions != nil || roleChanged {
		perms, err := permissionsForRole(user.Role, payload.Permissions)
		if err != nil {
			return nil, err
		}
		user.Permissions = perms
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.permissionService.InvalidateUser(ctx, id)

	return s.FindUser(ctx, id)
}

func (s *UserService) ChangeStatus(ctx context.Context, id uint64, status string) error {
	if err := s.userRepo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.permissionService.InvalidateUser(ctx, id)
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.permissionService.InvalidateUser(ctx, id)
	return nil
}
