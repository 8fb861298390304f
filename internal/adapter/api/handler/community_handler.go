package handler

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/usecase"
	"farmily/pkg/response"
)

type CommunityHandler struct {
	communityUseCase *usecase.CommunityUseCase
}

func NewCommunityHandler(communityUseCase *usecase.CommunityUseCase) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase: communityUseCase,
	}
}

type createPostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

type contentRequest struct {
	Content string `json:"content" validate:"required"`
}

type askExpertRequest struct {
	Question string `json:"question" validate:"required"`
	Category string `json:"category"`
}

func (h *CommunityHandler) CreatePost(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.communityUseCase.CreatePost(c.Request().Context(), uid, usecase.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *CommunityHandler) ListPosts(c echo.Context) error {
	posts, err := h.communityUseCase.ListPosts(c.Request().Context(), c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posts)
}

func (h *CommunityHandler) GetPost(c echo.Context) error {
	post, err := h.communityUseCase.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *CommunityHandler) EditPost(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req contentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.communityUseCase.EditPost(c.Request().Context(), uid, c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *CommunityHandler) DeletePost(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.communityUseCase.DeletePost(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Post deleted successfully",
	})
}

func (h *CommunityHandler) LikePost(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	post, err := h.communityUseCase.LikePost(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *CommunityHandler) AddComment(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req contentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.communityUseCase.AddComment(c.Request().Context(), uid, c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *CommunityHandler) ListComments(c echo.Context) error {
	comments, err := h.communityUseCase.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comments)
}

func (h *CommunityHandler) Categories(c echo.Context) error {
	categories, err := h.communityUseCase.Categories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, categories)
}

func (h *CommunityHandler) AskExpert(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req askExpertRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	question, err := h.communityUseCase.AskExpert(c.Request().Context(), uid, req.Question, req.Category)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, question)
}

func (h *CommunityHandler) Overview(c echo.Context) error {
	return response.Success(c, h.communityUseCase.Overview(c.Request().Context()))
}
