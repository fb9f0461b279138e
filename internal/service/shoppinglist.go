package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/types"
)

// ShoppingListService aggregates the ingredient amounts of every recipe in
// a user's shopping cart into one summed line per (name, unit) pair.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Items returns the aggregated shopping list, ordered by ingredient name
// ascending so the document is deterministic. An empty cart is ErrEmptyCart.
func (s *ShoppingListService) Items(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	// Every recipe carries at least one ingredient, so an empty result
	// means an empty cart.
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}

// Render formats the aggregated list as the downloadable plain-text
// document.
func (s *ShoppingListService) Render(username string, generatedAt time.Time, items []types.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	fmt.Fprintf(&b, "Generated for: %s\n", username)
	fmt.Fprintf(&b, "Created: %s\n\n", generatedAt.Format("02/01/2006 15:04"))
	for _, item := range items {
		fmt.Fprintf(&b, "%s --- %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}

// Filename is the attachment name of the document.
func (s *ShoppingListService) Filename(username string) string {
	return fmt.Sprintf("%s_shopping_list.txt", username)
}
