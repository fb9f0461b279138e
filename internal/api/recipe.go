package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService       *service.RecipeService
	userService         *service.UserService
	shoppingListService *service.ShoppingListService
	validator           middleware.TokenValidator
	publishLimiter      *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	userService *service.UserService,
	shoppingListService *service.ShoppingListService,
	validator middleware.TokenValidator,
	publishLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		userService:         userService,
		shoppingListService: shoppingListService,
		validator:           validator,
		publishLimiter:      publishLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.validator)
	anon := middleware.OptionalAuthMiddleware(h.validator)

	publish := []gin.HandlerFunc{authed}
	if h.publishLimiter != nil {
		publish = append(publish, h.publishLimiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", anon, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authed, h.DownloadShoppingCart)
		recipes.GET("/:id", anon, h.GetRecipe)
		recipes.POST("", append(publish, h.CreateRecipe)...)
		recipes.PATCH("/:id", append(publish, h.UpdateRecipe)...)
		recipes.DELETE("/:id", authed, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authed, h.AddFavorite)
		recipes.DELETE("/:id/favorite", authed, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", authed, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authed, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pagination(c)
	filter := service.RecipeFilter{
		TagSlugs:  c.QueryArray("tags"),
		Favorited: boolQuery(c, "is_favorited"),
		InCart:    boolQuery(c, "is_in_shopping_cart") || boolQuery(c, "is_shopping_cart"),
		Page:      page,
		Limit:     limit,
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), filter, requesterID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": recipes,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id, requesterID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requester, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, requester, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	requester, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, requester); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.recipeService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.recipeService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.recipeService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.recipeService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}

	items, err := h.shoppingListService.Items(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.Status(http.StatusNoContent)
			return
		}
		handleServiceError(c, err)
		return
	}

	username := c.GetString("username")
	document := h.shoppingListService.Render(username, time.Now(), items)

	c.Header("Content-Disposition", "attachment; filename="+h.shoppingListService.Filename(username))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(document))
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error)) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := mustRequesterID(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func boolQuery(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || v == "true"
}
