package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := protected(e, "/chats", authMiddleware)
	chats.GET("", chatHandler.ListChats)
	chats.GET("/:userId/messages", chatHandler.GetMessages)
	chats.POST("/:userId/messages", chatHandler.SendMessage)

	groups := protected(e, "/groups", authMiddleware)
	groups.GET("", chatHandler.ListGroups)
}

// SetupWebSocketRouter mounts the realtime endpoint, the only route that
// takes the token from the query string.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, wsHandler *handler.WebSocketHandler) {
	if wsHandler == nil {
		return
	}
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.AuthenticateWebSocket)
}
