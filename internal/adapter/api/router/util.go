package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/middleware"
)

// protected returns a /v1 group that requires a verified ID token.
func protected(e *echo.Echo, prefix string, authMiddleware *middleware.AuthMiddleware) *echo.Group {
	g := e.Group("/v1" + prefix)
	g.Use(authMiddleware.Authenticate)
	return g
}
