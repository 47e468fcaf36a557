package routes

import (
	"github.com/Aravind-508/SpiceRoute/controllers"
	"github.com/Aravind-508/SpiceRoute/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Orders may be placed by guests; coupons can be checked before login
		api.POST("/orders", middleware.OptionalAuthMiddleware(), controllers.PlaceOrder)
		api.POST("/coupons/validate", middleware.OptionalAuthMiddleware(), controllers.ValidateCoupon)

		user := api.Group("")
		user.Use(middleware.AuthMiddleware())
		{
			user.GET("/orders", controllers.ListOrders)
			user.GET("/orders/:id", controllers.GetOrder)
			user.GET("/orders/:id/invoice", controllers.DownloadInvoice)
			user.GET("/wallet", controllers.GetWallet)
			user.POST("/wallet/redeem", controllers.RedeemCoins)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/orders", controllers.AdminListOrders)
			admin.PUT("/orders/:id/status", controllers.AdminUpdateOrderStatus)
			admin.POST("/coupons", controllers.AdminCreateCoupon)
			admin.GET("/coupons", controllers.AdminListCoupons)
			admin.PUT("/coupons/:id", controllers.AdminUpdateCoupon)
			admin.DELETE("/coupons/:id", controllers.AdminDeleteCoupon)
			admin.GET("/reports/sales/export", controllers.AdminExportSalesReport)
		}
	}

	return router
}
