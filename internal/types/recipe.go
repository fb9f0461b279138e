package types

import (
	"time"

	"github.com/google/uuid"
)

// Read projections. These are the shapes returned to clients; they are built
// by the service layer and never bound from request bodies.

// UserResponse is the public profile of a user, with the subscription flag
// computed relative to the requesting user (false for anonymous requesters).
type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// IngredientInRecipe joins an ingredient's static fields with the quantity
// attached to the (recipe, ingredient) edge.
type IngredientInRecipe struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full read projection of a recipe.
type RecipeResponse struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []TagResponse        `json:"tags"`
	Author           UserResponse         `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            *string              `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
}

// ShortRecipeResponse is the compact projection used by the membership
// toggle endpoints and inside follow responses.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       *string   `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// FollowResponse is the followed author's profile together with their most
// recent recipes and the total recipe count.
type FollowResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// ShoppingListItem is one aggregated line of the shopping list: all amounts
// of the same (name, unit) ingredient across the cart, summed.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}
