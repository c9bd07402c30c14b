package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runUserRouter(secureGroup *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermissions(authz.Permission(authz.ResourceUsers, authz.ActionView))
	// Управление пользователями требует и роли admin, и соответствующего права.
	manage := authMW.Require(authz.RoleAdmin, authz.Permission(authz.ResourceUsers, authz.ActionAdmin))

	secureGroup.GET("/users", ctrl.GetUsers, view)
	secureGroup.GET("/user/:id", ctrl.FindUser, view)
	secureGroup.POST("/user", ctrl.CreateUser, manage)
	secureGroup.PUT("/user/:id", ctrl.UpdateUser, manage)
	secureGroup.PATCH("/user/:id/status", ctrl.ChangeStatus, manage)
	secureGroup.DELETE("/user/:id", ctrl.DeleteUser, manage)
}
