package handler

import (
	"postboard/internal/delivery/api/middleware"
	"postboard/internal/delivery/api/response"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	PostUC usecase.PostUsecase
}

// PostHandler serves the post and like endpoints. Every route sits behind the auth gate.
type PostHandler struct {
	postUC usecase.PostUsecase
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{postUC: params.PostUC}
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Fail(c, domainerrors.ErrInvalidToken)
	}

	var req usecase.CreatePostInput
	if err := c.Bind(&req); err != nil {
		return response.MalformedBody(c, "post input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	post, err := h.postUC.CreatePost(c.Request().Context(), userID, &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, post)
}

// ListPosts handles GET /api/posts.
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postUC.ListPosts(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, posts)
}

// GetPost handles GET /api/posts/:id.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postUC.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, post)
}

// DeletePost handles DELETE /api/posts/:id.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Fail(c, domainerrors.ErrInvalidToken)
	}

	if err := h.postUC.DeletePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, "Post removed")
}

// LikePost handles PUT /api/posts/like/:id.
func (h *PostHandler) LikePost(c echo.Context) error {
	return h.toggleLike(c, usecase.Like)
}

// UnlikePost handles PUT /api/posts/unlike/:id.
func (h *PostHandler) UnlikePost(c echo.Context) error {
	return h.toggleLike(c, usecase.Unlike)
}

func (h *PostHandler) toggleLike(c echo.Context, direction usecase.LikeDirection) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Fail(c, domainerrors.ErrInvalidToken)
	}

	likes, err := h.postUC.ToggleLike(c.Request().Context(), c.Param("id"), userID, direction)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, likes)
}
