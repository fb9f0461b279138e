package types

import "github.com/google/uuid"

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmount is one entry of a recipe write payload: an ingredient id
// plus the quantity to attach to the (recipe, ingredient) edge.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image is an embedded base64 payload ("data:image/png;base64,....").
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=256"`
	Text        string             `json:"text" binding:"required,max=1000"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
}

// UpdateRecipeRequest represents the request body for a partial recipe
// update. Nil fields are absent from the payload and keep their stored
// values; a present ingredient or tag list replaces the stored set
// wholesale.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name"`
	Text        *string             `json:"text"`
	CookingTime *int                `json:"cooking_time"`
	Image       *string             `json:"image"`
	Tags        *[]uuid.UUID        `json:"tags"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
}
