package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeService handles recipe CRUD, the favorite and shopping-cart
// toggles, and the read projection of recipes.
type RecipeService struct {
	db     *gorm.DB
	images ImageStorage
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. images may be nil,
// in which case recipe image payloads are decoded but not stored.
func NewRecipeService(db *gorm.DB, images ImageStorage, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		db:     db,
		images: images,
		logger: logger,
	}
}

// RecipeFilter describes the recipe list filters. All dimensions combine
// with AND; the tag slugs combine with OR among themselves. Favorited and
// InCart are ignored for anonymous requesters.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Page      int
	Limit     int
}

// List returns the filtered recipe page, newest first, and the total count
// before pagination.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter, requester *uuid.UUID) ([]types.RecipeResponse, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Recipe{})
		if filter.Author != nil {
			query = query.Where("recipes.author_id = ?", *filter.Author)
		}
		if len(filter.TagSlugs) > 0 {
			query = query.Where(
				"EXISTS (SELECT 1 FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE recipe_tags.recipe_id = recipes.id AND tags.slug IN ?)",
				filter.TagSlugs,
			)
		}
		if filter.Favorited && requester != nil {
			query = query.Where(
				"EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)",
				*requester,
			)
		}
		if filter.InCart && requester != nil {
			query = query.Where(
				"EXISTS (SELECT 1 FROM shopping_carts WHERE shopping_carts.recipe_id = recipes.id AND shopping_carts.user_id = ?)",
				*requester,
			)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var recipes []models.Recipe
	err := filtered().
		Preload("Tags").
		Preload("Author").
		Order("recipes.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	projected, err := s.project(ctx, recipes, requester)
	if err != nil {
		return nil, 0, err
	}
	return projected, total, nil
}

// Get returns the read projection of a single recipe.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	projected, err := s.project(ctx, []models.Recipe{recipe}, requester)
	if err != nil {
		return nil, err
	}
	return &projected[0], nil
}

// Create persists a recipe for the author, with its tag set and ingredient
// amounts, and returns the read projection.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if err := validateIngredientItems(req.Ingredients); err != nil {
		return nil, err
	}
	if err := validateTagList(req.Tags); err != nil {
		return nil, err
	}
	if err := validateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.resolveIngredients(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	url, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    url,
		Tags:        tags,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("author_id", authorID.String()))

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update applies a partial update. Present ingredient and tag lists replace
// the stored sets wholesale; absent fields keep their stored values. Only
// the author or staff may update.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, requester *models.User, req types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != requester.ID && !requester.IsStaff {
		return nil, ErrForbidden
	}

	// Validate everything before touching stored state, so a rejected
	// payload leaves the recipe unchanged.
	if req.Ingredients != nil {
		if err := validateIngredientItems(*req.Ingredients); err != nil {
			return nil, err
		}
		if err := s.resolveIngredients(ctx, *req.Ingredients); err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if req.Tags != nil {
		if err := validateTagList(*req.Tags); err != nil {
			return nil, err
		}
		var err error
		tags, err = s.resolveTags(ctx, *req.Tags)
		if err != nil {
			return nil, err
		}
	}
	if req.CookingTime != nil {
		if err := validateCookingTime(*req.CookingTime); err != nil {
			return nil, err
		}
		recipe.CookingTime = *req.CookingTime
	}
	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.Image != nil {
		url, err := s.storeImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		// An empty url for a non-empty payload means storage is not
		// configured; keep the stored image in that case.
		if url != "" || *req.Image == "" {
			recipe.ImageURL = url
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return createIngredientRows(tx, recipe.ID, *req.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe updated", zap.String("recipe_id", recipe.ID.String()))

	return s.Get(ctx, recipe.ID, &requester.ID)
}

// Delete removes a recipe and its ingredient, favorite and cart rows. Only
// the author or staff may delete.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID, requester *models.User) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != requester.ID && !requester.IsStaff {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// AddFavorite adds the recipe to the user's favorites and returns the short
// recipe projection; adding twice is a conflict.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.Favorite{UserID: userID, RecipeID: recipeID}
	cond := map[string]interface{}{"user_id": userID, "recipe_id": recipeID}
	if err := addMembership(ctx, s.db, &row, cond); err != nil {
		return nil, err
	}
	resp := shortRecipeResponse(*recipe)
	return &resp, nil
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	cond := map[string]interface{}{"user_id": userID, "recipe_id": recipeID}
	return removeMembership[models.Favorite](ctx, s.db, cond)
}

// AddToCart adds the recipe to the user's shopping cart; same contract as
// AddFavorite.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	row := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	cond := map[string]interface{}{"user_id": userID, "recipe_id": recipeID}
	if err := addMembership(ctx, s.db, &row, cond); err != nil {
		return nil, err
	}
	resp := shortRecipeResponse(*recipe)
	return &resp, nil
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	cond := map[string]interface{}{"user_id": userID, "recipe_id": recipeID}
	return removeMembership[models.ShoppingCart](ctx, s.db, cond)
}

func (s *RecipeService) findRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) storeImage(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}
	data, contentType, err := DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return "", nil
	}
	return s.images.StoreImage(ctx, data, contentType)
}

// project builds the full read projection for a recipe batch: nested tags
// and author, ingredient amounts, and the requester-relative booleans.
func (s *RecipeService) project(ctx context.Context, recipes []models.Recipe, requester *uuid.UUID) ([]types.RecipeResponse, error) {
	ids := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	ingredients, err := s.ingredientsByRecipe(ctx, ids)
	if err != nil {
		return nil, err
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if requester != nil && len(ids) > 0 {
		if favorited, err = s.membershipSet(ctx, &models.Favorite{}, *requester, ids); err != nil {
			return nil, err
		}
		if inCart, err = s.membershipSet(ctx, &models.ShoppingCart{}, *requester, ids); err != nil {
			return nil, err
		}

		var followed []uuid.UUID
		err = s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id IN ?", *requester, authorIDs).
			Pluck("author_id", &followed).Error
		if err != nil {
			return nil, err
		}
		for _, id := range followed {
			subscribed[id] = true
		}
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, types.RecipeResponse{
			ID:               r.ID,
			Tags:             tagResponses(r.Tags),
			Author:           userResponse(r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients[r.ID],
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            imageURL(r.ImageURL),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.CreatedAt,
		})
	}
	return out, nil
}

func (s *RecipeService) ingredientsByRecipe(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]types.IngredientInRecipe, error) {
	out := make(map[uuid.UUID][]types.IngredientInRecipe, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID        uuid.UUID
		IngredientID    uuid.UUID
		Name            string
		MeasurementUnit string
		Amount          int
	}
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("ingredients.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], types.IngredientInRecipe{
			ID:              row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return out, nil
}

func (s *RecipeService) membershipSet(ctx context.Context, model interface{}, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("tag: %w", ErrNotFound)
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, items []types.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id IN ?", ids).Count(&count).Error
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("ingredient: %w", ErrNotFound)
	}
	return nil
}

func createIngredientRows(tx *gorm.DB, recipeID uuid.UUID, items []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}

func validateIngredientItems(items []types.IngredientAmount) error {
	if len(items) == 0 {
		return validationErr("ingredients", "add at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return validationErr("ingredients", "ingredient already present in the recipe")
		}
		seen[item.ID] = struct{}{}
		if item.Amount < 1 {
			return validationErr("amount", "amount must be at least 1")
		}
	}
	return nil
}

func validateTagList(tags []uuid.UUID) error {
	if len(tags) == 0 {
		return validationErr("tags", "choose at least one tag")
	}
	seen := make(map[uuid.UUID]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			return validationErr("tags", "tags must be unique")
		}
		seen[tag] = struct{}{}
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < 1 {
		return validationErr("cooking_time", "cooking time must be at least 1")
	}
	return nil
}
