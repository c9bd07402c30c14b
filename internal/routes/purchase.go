package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runPurchaseRouter(secureGroup *echo.Group, ctrl *controllers.PurchaseController, authMW *middleware.AuthMiddleware) {
	reqView := authMW.RequirePermissions(authz.Permission(authz.ResourceRequisitions, authz.ActionView))
	reqEdit := authMW.RequirePermissions(authz.Permission(authz.ResourceRequisitions, authz.ActionEdit))
	reqDel := authMW.RequirePermissions(authz.Permission(authz.ResourceRequisitions, authz.ActionDelete))
	// Решение по заявке — административное действие над закупками.
	reqAdmin := authMW.RequirePermissions(authz.Permission(authz.ResourceRequisitions, authz.ActionAdmin))
	orderView := authMW.RequirePermissions(authz.Permission(authz.ResourceOrders, authz.ActionView))
	orderEdit := authMW.RequirePermissions(authz.Permission(authz.ResourceOrders, authz.ActionEdit))

	secureGroup.GET("/requisitions", ctrl.GetRequisitions, reqView)
	secureGroup.GET("/requisition/:id", ctrl.FindRequisition, reqView)
	secureGroup.POST("/requisition", ctrl.CreateRequisition, reqEdit)
	secureGroup.PUT("/requisition/:id", ctrl.UpdateRequisition, reqEdit)
	secureGroup.POST("/requisition/:id/approve", ctrl.ApproveRequisition, reqAdmin)
	secureGroup.POST("/requisition/:id/reject", ctrl.RejectRequisition, reqAdmin)
	secureGroup.DELETE("/requisition/:id", ctrl.DeleteRequisition, reqDel)

	secureGroup.GET("/orders", ctrl.GetOrders, orderView)
	secureGroup.GET("/order/:id", ctrl.FindOrder, orderView)
	secureGroup.PATCH("/order/:id/status", ctrl.UpdateOrderStatus, orderEdit)
}
