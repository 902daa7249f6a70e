package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/controller"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
)

type Router struct {
	attributeController *controller.AttributeController
	variantController   *controller.VariantController
	purchaseController  *controller.PurchaseController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

// NewRouter wires the HTTP surface. uploadController may be nil when S3 is
// not configured; the upload route is then not registered.
func NewRouter(
	attributeController *controller.AttributeController,
	variantController *controller.VariantController,
	purchaseController *controller.PurchaseController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		attributeController: attributeController,
		variantController:   variantController,
		purchaseController:  purchaseController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Variant API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/attributes", r.attributeController.ListActiveAttributes)

		products := v1.Group("/products")
		{
			products.GET("/:id/variants", r.variantController.ListActiveVariants)
			products.POST("/:id/variants/resolve", r.variantController.ResolveVariant)
		}

		purchase := v1.Group("/purchase")
		{
			purchase.POST("/check", r.authMiddleware.OptionalAuthenticate(), r.purchaseController.CheckAvailability)
			purchase.POST("", r.authMiddleware.Authenticate(), r.purchaseController.BuyNow)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/attributes", r.attributeController.CreateAttribute)
			admin.GET("/attributes", r.attributeController.ListAttributes)
			admin.PATCH("/attributes/:id", r.attributeController.UpdateAttribute)
			admin.POST("/attributes/:id/values", r.attributeController.AddValue)
			admin.PATCH("/attribute-values/:id", r.attributeController.UpdateValue)

			admin.POST("/products", r.variantController.CreateProduct)
			admin.GET("/products/:id/variants", r.variantController.ListVariants)
			admin.POST("/products/:id/variants", r.variantController.CreateVariant)
			admin.POST("/products/:id/variants/generate", r.variantController.GenerateVariants)
			admin.GET("/products/:id/variants/export", r.variantController.ExportVariants)

			admin.PATCH("/variants/:id", r.variantController.UpdateVariant)
			admin.DELETE("/variants/:id", r.variantController.DeleteVariant)

			if r.uploadController != nil {
				admin.POST("/uploads/variant-image", r.uploadController.PresignVariantImage)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
