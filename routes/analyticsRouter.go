package routes

import (
	controller "campus-canteen/controllers"

	"github.com/gin-gonic/gin"
)

func AnalyticsRoutes(incomingRoutes *gin.RouterGroup, d Deps) {
	incomingRoutes.GET("/analytics", controller.GetAnalytics(d.Analytics))
	incomingRoutes.GET("/analytics/ws", controller.StreamAnalytics(d.Analytics, d.AnalyticsRefresh, d.Log))

	incomingRoutes.GET("/notifications", controller.GetNotifications(d.Notifications))
	incomingRoutes.POST("/notifications/read", controller.MarkNotificationsRead(d.Notifications))
	incomingRoutes.DELETE("/notifications", controller.ClearNotifications(d.Notifications))
}
