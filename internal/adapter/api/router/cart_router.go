package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupCartRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	cartHandler := handler.GetCartHandler()

	cart := protected(e, "/cart", authMiddleware)
	cart.GET("", cartHandler.GetCart)
	cart.POST("", cartHandler.AddItem)
	cart.DELETE("", cartHandler.ClearCart)
	cart.POST("/checkout", cartHandler.Checkout)
	cart.PATCH("/:id", cartHandler.UpdateItem)
	cart.DELETE("/:id", cartHandler.RemoveItem)
}
