package routes

import (
	controller "campus-canteen/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.RouterGroup, d Deps) {
	incomingRoutes.GET("/orders", controller.GetOrders(d.Store))
	incomingRoutes.GET("/orders/:order_id", controller.GetOrder(d.Store))
	incomingRoutes.PATCH("/orders/:order_id/status", controller.UpdateOrderStatus(d.Store, d.Publisher))
	incomingRoutes.DELETE("/orders/:order_id", controller.DeleteOrder(d.Store, d.Publisher))
	incomingRoutes.POST("/orders/reset", controller.ResetOrders(d.Store, d.Publisher))
	incomingRoutes.GET("/ws", controller.OrdersFeed(d.Store, d.Hub, d.Notifications, d.Log))
}
