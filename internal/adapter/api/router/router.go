package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter, wsHandler *handler.WebSocketHandler, metrics http.Handler) {
	SetupHealthRouter(e, metrics)
	SetupAuthRouter(e, authMiddleware, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupCartRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupWebSocketRouter(e, authMiddleware, wsHandler)
	SetupTaskRouter(e, authMiddleware)
	SetupYieldRouter(e, authMiddleware)
	SetupFarmRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupCommunityRouter(e, authMiddleware)
	SetupIntegrationRouter(e, authMiddleware)
	SetupMeetingRouter(e, authMiddleware)
}
