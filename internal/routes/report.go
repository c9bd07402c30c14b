package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runReportRouter(secureGroup *echo.Group, ctrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermissions(authz.Permission(authz.ResourceReports, authz.ActionView))

	secureGroup.GET("/reports/maintenance", ctrl.GetMaintenanceReport, view)
	secureGroup.GET("/reports/usage", ctrl.GetUsageReport, view)
}
