// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"postboard/internal/delivery/api/middleware"
	"postboard/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	postHandler    *handler.PostHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		postHandler:    params.PostHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Public routes
	api.POST("/users", r.userHandler.RegisterUser)
	api.POST("/auth", r.userHandler.Login)

	// Routes behind the auth gate
	api.GET("/auth", r.userHandler.GetCurrentUser, r.authMiddleware.Authenticate)

	// The gate is attached per route: Group.Use would also wrap the group's
	// not-found handler and answer unknown paths with 401.
	gate := r.authMiddleware.Authenticate
	postsGroup := api.Group("/posts")
	{
		postsGroup.POST("", r.postHandler.CreatePost, gate)
		postsGroup.GET("", r.postHandler.ListPosts, gate)
		postsGroup.GET("/:id", r.postHandler.GetPost, gate)
		postsGroup.DELETE("/:id", r.postHandler.DeletePost, gate)
		postsGroup.PUT("/like/:id", r.postHandler.LikePost, gate)
		postsGroup.PUT("/unlike/:id", r.postHandler.UnlikePost, gate)
	}
}
