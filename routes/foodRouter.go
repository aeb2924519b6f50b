package routes

import (
	controller "campus-canteen/controllers"

	"github.com/gin-gonic/gin"
)

func FoodRoutes(incomingRoutes *gin.RouterGroup, d Deps) {
	incomingRoutes.GET("/foods", controller.GetFoods(d.Store))
	incomingRoutes.GET("/foods/:food_id", controller.GetFood(d.Store))
	incomingRoutes.POST("/foods", controller.CreateFood(d.Store))
	incomingRoutes.PUT("/foods/:food_id", controller.UpdateFood(d.Store))
	incomingRoutes.PATCH("/foods/:food_id/availability", controller.SetFoodAvailability(d.Store))
	incomingRoutes.DELETE("/foods/:food_id", controller.DeleteFood(d.Store))
}
