package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermissions(authz.Permission(authz.ResourceEquipments, authz.ActionView))
	edit := authMW.RequirePermissions(authz.Permission(authz.ResourceEquipments, authz.ActionEdit))
	del := authMW.RequirePermissions(authz.Permission(authz.ResourceEquipments, authz.ActionDelete))
	usageView := authMW.RequirePermissions(authz.Permission(authz.ResourceUsage, authz.ActionView))
	usageEdit := authMW.RequirePermissions(authz.Permission(authz.ResourceUsage, authz.ActionEdit))

	secureGroup.GET("/equipments", ctrl.GetEquipments, view)
	secureGroup.GET("/equipment/:id", ctrl.FindEquipment, view)
	secureGroup.POST("/equipment", ctrl.CreateEquipment, edit)
	secureGroup.PUT("/equipment/:id", ctrl.UpdateEquipment, edit)
	secureGroup.PATCH("/equipment/:id/status", ctrl.ChangeStatus, edit)
	secureGroup.POST("/equipment/:id/image", ctrl.UploadImage, edit)
	secureGroup.DELETE("/equipment/:id", ctrl.DeleteEquipment, del)

	secureGroup.GET("/equipment/:id/due", ctrl.GetDueInfo, view)
	secureGroup.POST("/equipment/:id/usage", ctrl.LogUsage, usageEdit)
	secureGroup.GET("/equipment/:id/usage", ctrl.ListUsage, usageView)
}
