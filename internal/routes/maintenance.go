package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runMaintenanceRouter(secureGroup *echo.Group, ctrl *controllers.MaintenanceController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermissions(authz.Permission(authz.ResourceMaintenance, authz.ActionView))
	edit := authMW.RequirePermissions(authz.Permission(authz.ResourceMaintenance, authz.ActionEdit))
	del := authMW.RequirePermissions(authz.Permission(authz.ResourceMaintenance, authz.ActionDelete))

	secureGroup.GET("/maintenance", ctrl.GetTasks, view)
	secureGroup.GET("/maintenance/:id", ctrl.FindTask, view)
	secureGroup.POST("/maintenance", ctrl.ScheduleTask, edit)
	secureGroup.PUT("/maintenance/:id", ctrl.UpdateTask, edit)
	secureGroup.POST("/maintenance/:id/complete", ctrl.CompleteTask, edit)
	secureGroup.DELETE("/maintenance/:id", ctrl.DeleteTask, del)
}
