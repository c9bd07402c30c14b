package utils

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

// GetUserIDFromCtx достаёт ID аутентифицированного пользователя из контекста.
func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	if id == 0 {
		return 0, apperrors.ErrInvalidUserID
	}
	return id, nil
}

// GetPermissionsFromCtx достаёт карту прав, положенную auth-middleware.
func GetPermissionsFromCtx(ctx context.Context) (authz.PermissionSet, error) {
	perms, ok := ctx.Value(contextkeys.PermissionsKey).(authz.PermissionSet)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return perms, nil
}

// GetUserRoleFromCtx достаёт роль пользователя из контекста.
func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return role, nil
}
