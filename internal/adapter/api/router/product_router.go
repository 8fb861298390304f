package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()

	products := protected(e, "/products", authMiddleware)
	products.GET("", productHandler.ListProducts)
	products.POST("", productHandler.CreateProduct)
	products.POST("/upload-url", productHandler.ImageUploadURL)
	products.GET("/:id", productHandler.GetProduct)
	products.PUT("/:id", productHandler.UpdateProduct)
	products.DELETE("/:id", productHandler.DeleteProduct)

	myProducts := protected(e, "/my-products", authMiddleware)
	myProducts.GET("", productHandler.ListMyProducts)
}
