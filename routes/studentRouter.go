package routes

import (
	controller "campus-canteen/controllers"

	"github.com/gin-gonic/gin"
)

// StudentRoutes expects the group to carry the session cookie middleware.
func StudentRoutes(incomingRoutes *gin.RouterGroup, d Deps) {
	incomingRoutes.GET("/profile", controller.GetProfile(d.Carts))
	incomingRoutes.PUT("/profile", controller.PutProfile(d.Carts))
	incomingRoutes.GET("/menu", controller.GetMenu(d.Store, d.Carts))

	incomingRoutes.GET("/cart", controller.GetCart(d.Carts))
	incomingRoutes.POST("/cart/items", controller.AddCartItem(d.Store, d.Carts))
	incomingRoutes.PATCH("/cart/items/:food_id", controller.UpdateCartItem(d.Carts))
	incomingRoutes.DELETE("/cart/items/:food_id", controller.RemoveCartItem(d.Carts))
	incomingRoutes.DELETE("/cart", controller.ClearCart(d.Carts))

	incomingRoutes.POST("/checkout", controller.Checkout(d.Checkout, d.Carts))
	incomingRoutes.GET("/orders/:order_id", controller.GetPlacedOrder(d.Store))
}
