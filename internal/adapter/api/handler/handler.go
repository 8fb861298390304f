package handler

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/usecase"
	"farmily/pkg/errors"
)

// UseCases groups everything the HTTP handlers delegate to.
type UseCases struct {
	Auth          *usecase.AuthUseCase
	User          *usecase.UserUseCase
	Discovery     *usecase.DiscoveryUseCase
	Cart          *usecase.CartUseCase
	Chat          *usecase.ChatUseCase
	Task          *usecase.TaskUseCase
	Yield         *usecase.YieldUseCase
	Farm          *usecase.FarmUseCase
	Product       *usecase.ProductUseCase
	Community     *usecase.CommunityUseCase
	Weather       *usecase.WeatherUseCase
	Market        *usecase.MarketUseCase
	CropDetection *usecase.CropDetectionUseCase
	Meeting       *usecase.MeetingUseCase
}

var (
	authHandler        *AuthHandler
	userHandler        *UserHandler
	cartHandler        *CartHandler
	chatHandler        *ChatHandler
	taskHandler        *TaskHandler
	yieldHandler       *YieldHandler
	farmHandler        *FarmHandler
	productHandler     *ProductHandler
	communityHandler   *CommunityHandler
	integrationHandler *IntegrationHandler
	meetingHandler     *MeetingHandler
)

func Setup(uc UseCases) {
	authHandler = NewAuthHandler(uc.Auth)
	userHandler = NewUserHandler(uc.User, uc.Discovery)
	cartHandler = NewCartHandler(uc.Cart)
	chatHandler = NewChatHandler(uc.Chat)
	taskHandler = NewTaskHandler(uc.Task)
	yieldHandler = NewYieldHandler(uc.Yield)
	farmHandler = NewFarmHandler(uc.Farm)
	productHandler = NewProductHandler(uc.Product)
	communityHandler = NewCommunityHandler(uc.Community)
	integrationHandler = NewIntegrationHandler(uc.Weather, uc.Market, uc.CropDetection)
	meetingHandler = NewMeetingHandler(uc.Meeting)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetTaskHandler() *TaskHandler {
	return taskHandler
}

func GetYieldHandler() *YieldHandler {
	return yieldHandler
}

func GetFarmHandler() *FarmHandler {
	return farmHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetCommunityHandler() *CommunityHandler {
	return communityHandler
}

func GetIntegrationHandler() *IntegrationHandler {
	return integrationHandler
}

func GetMeetingHandler() *MeetingHandler {
	return meetingHandler
}

// currentUser returns the uid the auth middleware stored on the context.
func currentUser(c echo.Context) (string, error) {
	uid, ok := c.Get("uid").(string)
	if !ok || uid == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, nil
}
