package middleware

import (
	"context"
	"net/http"
	"strings"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const currentUserKey = "currentUser"

// UserProvider отдаёт пользователя вместе с картой прав (с кешированием).
type UserProvider interface {
	GetUserWithPermissions(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthMiddleware struct {
	jwtService   service.JWTService
	userProvider UserProvider
	logger       *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, userProvider UserProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtSvc,
		userProvider: userProvider,
		logger:       logger,
	}
}

// Auth проверяет Bearer-токен, загружает пользователя и кладёт его
// вместе с правами в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		user, err := m.userProvider.GetUserWithPermissions(c.Request().Context(), claims.UserID)
		if err != nil {
			m.logger.Warn("AuthMiddleware: Пользователь из токена не найден", zap.Uint64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		if !user.IsActive() {
			return utils.ErrorResponse(c, apperrors.ErrUserInactive, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, user.ID)
		ctx = context.WithValue(ctx, contextkeys.UserRoleKey, user.Role)
		ctx = context.WithValue(ctx, contextkeys.PermissionsKey, user.Permissions)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(currentUserKey, user)

		return next(c)
	}
}

// Require строит guard роутов: объявленные "resource:action" проверяются
// шлюзом доступа. Отказ — это результат, который мы мапим на 401/403.
func (m *AuthMiddleware) Require(requiredRole string, requiredPermissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(currentUserKey).(*entities.User)

			decision := authz.Authorize(user.AuthSubject(), requiredRole, requiredPermissions)
			if decision.Allowed {
				return next(c)
			}

			m.logger.Warn("Отказ в доступе",
				zap.String("decision", decision.String()),
				zap.String("uri", c.Request().RequestURI),
			)

			if decision.Reason == authz.DenyUnauthenticated {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			return utils.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusForbidden,
				"Доступ запрещён: "+decision.String(),
				apperrors.ErrForbidden,
				nil,
			), m.logger)
		}
	}
}

// RequirePermissions — guard только по правам, без требования роли.
func (m *AuthMiddleware) RequirePermissions(requiredPermissions ...string) echo.MiddlewareFunc {
	return m.Require("", requiredPermissions...)
}
