package routes

import (
	"net/http"
	"time"

	"campus-canteen/analytics"
	"campus-canteen/cart"
	controller "campus-canteen/controllers"
	"campus-canteen/feed"
	"campus-canteen/helpers"
	"campus-canteen/logger"
	"campus-canteen/middleware"
	"campus-canteen/models"
	"campus-canteen/notifications"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the handlers close over.
type Deps struct {
	Store            repository.Store
	Carts            *cart.Sessions
	Checkout         controller.OrderSubmitter
	Analytics        *analytics.Service
	Hub              *feed.Hub
	Publisher        feed.Publisher
	Notifications    *notifications.Registry
	Tokens           *helpers.Tokens
	Log              *logger.Logger
	AnalyticsRefresh time.Duration
	SecureCookies    bool
}

// Register mounts every route on r.
func Register(r *gin.Engine, d Deps) {
	if d.Publisher == nil {
		d.Publisher = d.Hub
	}
	if d.AnalyticsRefresh <= 0 {
		d.AnalyticsRefresh = 15 * time.Second
	}

	r.GET("/", controller.Landing(d.Analytics))
	r.GET("/popular", controller.GetPopular(d.Analytics))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	UserRoutes(r, d)
	StudentRoutes(r.Group("/student", middleware.StudentSession(d.SecureCookies)), d)

	admin := r.Group("/admin", middleware.Authentication(d.Tokens), middleware.RequireRole(models.RoleAdmin))
	FoodRoutes(admin, d)
	OrderRoutes(admin, d)
	ReceiptRoutes(admin, d)
	AnalyticsRoutes(admin, d)
}
