package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupIntegrationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	integrationHandler := handler.GetIntegrationHandler()

	weather := protected(e, "/weather", authMiddleware)
	weather.GET("", integrationHandler.Weather)

	market := protected(e, "/market", authMiddleware)
	market.GET("/prices", integrationHandler.MarketPrices)

	detection := protected(e, "/crop-detection", authMiddleware)
	detection.GET("/health", integrationHandler.DetectionHealth)
	detection.POST("/predict", integrationHandler.Predict)
	detection.GET("/endpoint", integrationHandler.GetEndpoint)
	detection.PUT("/endpoint", integrationHandler.SetEndpoint)
}

func SetupMeetingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	meetingHandler := handler.GetMeetingHandler()

	meetings := protected(e, "/meetings", authMiddleware)
	meetings.POST("", meetingHandler.CreateMeeting)
	meetings.GET("/:id/join", meetingHandler.JoinMeeting)
}
