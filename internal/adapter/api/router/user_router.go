package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := protected(e, "/users", authMiddleware)
	users.GET("", userHandler.ListUsers)
	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me", userHandler.UpdateMe)
	users.PUT("/me/username", userHandler.UpdateUsername)
	users.GET("/me/recently-viewed", userHandler.RecentlyViewed)
	users.GET("/suggested", userHandler.Suggested)
	users.GET("/:id", userHandler.GetUser)
	users.POST("/:id/views", userHandler.RecordView)
}
