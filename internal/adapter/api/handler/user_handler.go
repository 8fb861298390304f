package handler

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/domain/entity"
	"farmily/internal/usecase"
	"farmily/pkg/response"
	"farmily/pkg/utils"
)

type UserHandler struct {
	userUseCase      *usecase.UserUseCase
	discoveryUseCase *usecase.DiscoveryUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase, discoveryUseCase *usecase.DiscoveryUseCase) *UserHandler {
	return &UserHandler{
		userUseCase:      userUseCase,
		discoveryUseCase: discoveryUseCase,
	}
}

type updateProfileRequest struct {
	DisplayName *string              `json:"display_name" validate:"omitempty,min=1,max=80"`
	FirstName   *string              `json:"first_name" validate:"omitempty,max=50"`
	LastName    *string              `json:"last_name" validate:"omitempty,max=50"`
	PhoneNumber *string              `json:"phone_number" validate:"omitempty,max=20"`
	FarmName    *string              `json:"farm_name" validate:"omitempty,max=100"`
	Settings    *entity.UserSettings `json:"settings"`
}

type updateUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetMe(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		FarmName:    req.FarmName,
		Settings:    req.Settings,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateUsername(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateUsername(c.Request().Context(), uid, req.Username)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// ListUsers pages through the directory, or searches it when q is set.
func (h *UserHandler) ListUsers(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetCursorParams(c)
	if q := c.QueryParam("q"); q != "" {
		users, err := h.discoveryUseCase.Search(c.Request().Context(), uid, q, params)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Cursor(c, users, "", false)
	}

	page, err := h.discoveryUseCase.ListUsers(c.Request().Context(), uid, params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Cursor(c, page.Users, page.NextCursor, page.HasMore)
}

func (h *UserHandler) RecordView(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	recent, err := h.discoveryUseCase.RecordView(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"recently_viewed": recent,
	})
}

func (h *UserHandler) RecentlyViewed(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	users, err := h.discoveryUseCase.RecentlyViewed(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *UserHandler) Suggested(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	users, err := h.discoveryUseCase.Suggested(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}
