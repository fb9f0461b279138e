package service

import (
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// Conversions from stored models to the read projections. Computed fields
// (is_subscribed, is_favorited, is_in_shopping_cart) are always relative to
// the requesting user and false for anonymous requesters.

func userResponse(u models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func tagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, types.TagResponse{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}
	return out
}

func shortRecipeResponse(r models.Recipe) types.ShortRecipeResponse {
	return types.ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(r.ImageURL),
		CookingTime: r.CookingTime,
	}
}

// imageURL returns nil for recipes without an image, so the JSON field is
// null rather than an empty string.
func imageURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
