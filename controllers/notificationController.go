package controllers

import (
	"net/http"

	"campus-canteen/notifications"

	"github.com/gin-gonic/gin"
)

func GetNotifications(reg *notifications.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		inbox := reg.For(c.GetString("uid"))
		c.JSON(http.StatusOK, gin.H{
			"notifications": inbox.List(),
			"unread":        inbox.UnreadCount(),
		})
	}
}

func MarkNotificationsRead(reg *notifications.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg.For(c.GetString("uid")).MarkAllRead()
		c.Status(http.StatusNoContent)
	}
}

func ClearNotifications(reg *notifications.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg.For(c.GetString("uid")).Clear()
		c.Status(http.StatusNoContent)
	}
}
