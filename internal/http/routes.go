package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guard := h.SessionGuard()
	admin := h.AdminOnly()

	user := r.Group("/api/v1/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.RateLimit("login"), h.Login)
		user.POST("/logout", h.Logout)
		user.POST("/verify-email", h.VerifyEmail)
		user.POST("/forgot-password", h.RateLimit("forgot"), h.ForgotPassword)
		user.POST("/reset-password/:token", h.ResetPassword)
		user.GET("/check-auth", guard, h.CheckAuth)
		user.PUT("/profile/update", guard, h.UpdateProfile)
	}

	restaurant := r.Group("/api/v1/restaurant")
	{
		restaurant.POST("", guard, h.CreateRestaurant)
		restaurant.GET("", guard, admin, h.GetOwnRestaurant)
		restaurant.PUT("", guard, admin, h.UpdateRestaurant)
		restaurant.GET("/search/:query", h.SearchRestaurants)
		restaurant.GET("/:id", h.GetRestaurant)
	}

	menu := r.Group("/api/v1/menu", guard, admin)
	{
		menu.POST("", h.AddMenu)
		menu.PUT("/:id", h.EditMenu)
	}

	order := r.Group("/api/v1/order")
	{
		order.GET("", guard, h.GetOrders)
		order.GET("/restaurant", guard, admin, h.GetRestaurantOrders)
		order.PUT("/:id/status", guard, admin, h.UpdateOrderStatus)
		order.POST("/checkout/create-checkout-session", guard, h.CreateCheckoutSession)
		order.POST("/webhook", h.StripeWebhook) // authenticated by stripe signature
	}

	return r
}
