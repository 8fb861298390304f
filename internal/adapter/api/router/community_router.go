package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupCommunityRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	communityHandler := handler.GetCommunityHandler()

	posts := protected(e, "/posts", authMiddleware)
	posts.GET("", communityHandler.ListPosts)
	posts.POST("", communityHandler.CreatePost)
	posts.GET("/:id", communityHandler.GetPost)
	posts.PATCH("/:id", communityHandler.EditPost)
	posts.DELETE("/:id", communityHandler.DeletePost)
	posts.POST("/:id/like", communityHandler.LikePost)
	posts.GET("/:id/comments", communityHandler.ListComments)
	posts.POST("/:id/comments", communityHandler.AddComment)

	community := protected(e, "/community", authMiddleware)
	community.GET("/categories", communityHandler.Categories)
	community.GET("/overview", communityHandler.Overview)
	community.POST("/questions", communityHandler.AskExpert)
}
