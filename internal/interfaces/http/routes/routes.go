// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spicebazaar/marketplace-backend/internal/config"
	"github.com/spicebazaar/marketplace-backend/internal/domain/admin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/cart"
	"github.com/spicebazaar/marketplace-backend/internal/domain/checkout"
	"github.com/spicebazaar/marketplace-backend/internal/domain/order"
	"github.com/spicebazaar/marketplace-backend/internal/domain/product"
	"github.com/spicebazaar/marketplace-backend/internal/domain/upload"
	"github.com/spicebazaar/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/spicebazaar/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/spicebazaar/marketplace-backend/internal/pkg/notify"
	"github.com/spicebazaar/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires all services and registers the API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	// Services
	cartStore := cart.NewStore(cart.NewRedisStorage(redisClient, cfg), cfg, logger)
	productService := product.NewService(db, cfg)
	categoryService := product.NewCategoryService(db)
	reviewService := product.NewReviewService(db)
	orderService := order.NewService(db, cfg)
	adminService := admin.NewService(db, cfg)
	uploadService := upload.NewService(db, cfg)
	pdfService := pdf.NewService(cfg)
	notifier := notify.NewDiscordNotifier(cfg)
	checkoutService := checkout.NewService(cartStore, orderService, notifier, logger)

	// Handlers
	cartHandler := handlers.NewCartHandler(cartStore, productService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	orderHandler := handlers.NewOrderHandler(orderService, pdfService)
	authHandler := handlers.NewAuthHandler(adminService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// Public storefront routes
	products := rg.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.GET("/slug/:slug", productHandler.GetBySlug)
		products.GET("/:id/reviews", reviewHandler.ListForProduct)
		products.POST("/:id/reviews", reviewHandler.Submit)
	}

	rg.GET("/categories", categoryHandler.List)

	// Session-scoped cart and checkout routes
	session := rg.Group("")
	session.Use(middleware.SessionID())
	{
		session.GET("/cart", cartHandler.GetCart)
		session.POST("/cart/items", cartHandler.AddItem)
		session.PUT("/cart/items/:id", cartHandler.UpdateItem)
		session.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		session.DELETE("/cart", cartHandler.ClearCart)

		session.POST("/checkout", checkoutHandler.Submit)
	}

	// Admin routes
	adminGroup := rg.Group("/admin")
	{
		adminGroup.POST("/auth/login", authHandler.Login)
		adminGroup.POST("/auth/refresh", authHandler.Refresh)

		protected := adminGroup.Group("")
		protected.Use(middleware.AdminAuth(cfg))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.PUT("/auth/password", authHandler.ChangePassword)

			protected.POST("/products", productHandler.Create)
			protected.PUT("/products/:id", productHandler.Update)
			protected.DELETE("/products/:id", productHandler.Delete)

			protected.POST("/categories", categoryHandler.Create)
			protected.PUT("/categories/:id", categoryHandler.Update)
			protected.DELETE("/categories/:id", categoryHandler.Delete)

			protected.GET("/orders", orderHandler.List)
			protected.GET("/orders/:id", orderHandler.Get)
			protected.PUT("/orders/:id/status", orderHandler.UpdateStatus)
			protected.GET("/orders/:id/sheet", orderHandler.DownloadSheet)

			protected.GET("/reviews/pending", reviewHandler.ListPending)
			protected.POST("/reviews/:id/approve", reviewHandler.Approve)
			protected.DELETE("/reviews/:id", reviewHandler.Delete)

			protected.POST("/uploads", uploadHandler.UploadImage)
			protected.GET("/uploads", uploadHandler.ListImages)
			protected.DELETE("/uploads/:id", uploadHandler.DeleteImage)
		}
	}
}
