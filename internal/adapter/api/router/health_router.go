package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, metrics http.Handler) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}
