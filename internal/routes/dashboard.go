package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runDashboardRouter(secureGroup *echo.Group, ctrl *controllers.DashboardController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermissions(authz.Permission(authz.ResourceEquipments, authz.ActionView))

	secureGroup.GET("/dashboard", ctrl.GetDashboard, view)
}
