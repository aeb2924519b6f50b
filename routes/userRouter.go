package routes

import (
	controller "campus-canteen/controllers"
	"campus-canteen/middleware"
	"campus-canteen/models"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine, d Deps) {
	incomingRoutes.POST("/users/signup",
		middleware.OpenWhileNoUsers(d.Store, d.Tokens, models.RoleAdmin),
		controller.SignUp(d.Store, d.Tokens))
	incomingRoutes.POST("/users/login", controller.Login(d.Store, d.Tokens))
}
