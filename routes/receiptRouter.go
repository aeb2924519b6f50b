package routes

import (
	controller "campus-canteen/controllers"

	"github.com/gin-gonic/gin"
)

func ReceiptRoutes(incomingRoutes *gin.RouterGroup, d Deps) {
	incomingRoutes.GET("/orders/:order_id/receipt", controller.GetReceiptPage(d.Store))
	incomingRoutes.GET("/orders/:order_id/receipt.pdf", controller.GetReceiptPDF(d.Store))
}
