package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	validator   middleware.TokenValidator
}

func NewUserHandler(userService *service.UserService, validator middleware.TokenValidator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.validator), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.validator), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.validator), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.validator), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.validator), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)

	users, total, err := h.userService.List(c.Request.Context(), page, limit, requesterID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": users,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id, requesterID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID, &userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	follow, err := h.userService.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, follow)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	follows, total, err := h.userService.Subscriptions(c.Request.Context(), userID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": follows,
	})
}
