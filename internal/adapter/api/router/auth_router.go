package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
	"farmily/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	public := e.Group("/v1/auth")
	public.Use(middleware.RateLimit(limiter, ratelimit.ActionAuth))
	public.POST("/signup", authHandler.Signup)
	public.POST("/login", authHandler.Login)

	// Protected routes
	auth := protected(e, "/auth", authMiddleware)
	auth.POST("/logout", authHandler.Logout)
}
