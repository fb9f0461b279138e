package api_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

type pageResponse struct {
	Count   int64                  `json:"count"`
	Results []types.RecipeResponse `json:"results"`
}

func TestCreateRecipeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	token := env.token(t, author)

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token,
		recipePayload("Bread", dinner.ID, flour.ID, 500))
	require.Equal(t, http.StatusCreated, w.Code)

	var recipe types.RecipeResponse
	decodeJSON(t, w, &recipe)
	assert.Equal(t, "Bread", recipe.Name)
	assert.Equal(t, author.ID, recipe.Author.ID)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 500, recipe.Ingredients[0].Amount)

	// Anonymous writes are rejected.
	w = env.request(t, http.MethodPost, "/api/v1/recipes", "",
		recipePayload("Bread", dinner.ID, flour.ID, 500))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidationResponses(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	token := env.token(t, author)

	payload := recipePayload("Bread", dinner.ID, flour.ID, 0)
	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Validation errors are keyed by the offending field.
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Contains(t, body, "amount")

	payload = recipePayload("Bread", dinner.ID, flour.ID, 5)
	payload["cooking_time"] = 0
	w = env.request(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = nil
	decodeJSON(t, w, &body)
	assert.Contains(t, body, "cooking_time")
}

func TestGetRecipeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.db, author, "Bread", dinner, map[uuid.UUID]int{flour.ID: 500})

	// Reads work without a token.
	w := env.request(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.RecipeResponse
	decodeJSON(t, w, &got)
	assert.Equal(t, recipe.ID, got.ID)
	assert.False(t, got.IsFavorited)

	w = env.request(t, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	lunch := testhelpers.CreateTag(t, env.db, "Lunch", "lunch")

	testhelpers.CreateRecipe(t, env.db, alice, "Bread", dinner, map[uuid.UUID]int{flour.ID: 100})
	soup := testhelpers.CreateRecipe(t, env.db, bob, "Soup", lunch, map[uuid.UUID]int{flour.ID: 10})

	w := env.request(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page pageResponse
	decodeJSON(t, w, &page)
	assert.EqualValues(t, 2, page.Count)
	assert.Len(t, page.Results, 2)

	w = env.request(t, http.MethodGet, "/api/v1/recipes?tags=lunch", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = pageResponse{}
	decodeJSON(t, w, &page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, soup.ID, page.Results[0].ID)

	w = env.request(t, http.MethodGet, "/api/v1/recipes?author="+alice.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = pageResponse{}
	decodeJSON(t, w, &page)
	assert.EqualValues(t, 1, page.Count)

	w = env.request(t, http.MethodGet, "/api/v1/recipes?author=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	stranger := testhelpers.CreateUser(t, env.db, "stranger")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.db, author, "Bread", dinner, map[uuid.UUID]int{flour.ID: 500})

	path := "/api/v1/recipes/" + recipe.ID.String()

	w := env.request(t, http.MethodPatch, path, env.token(t, author), map[string]string{"name": "Sourdough"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.RecipeResponse
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Sourdough", updated.Name)
	// Untouched fields survive a partial update.
	assert.Equal(t, recipe.CookingTime, updated.CookingTime)

	w = env.request(t, http.MethodPatch, path, env.token(t, stranger), map[string]string{"name": "Mine"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	stranger := testhelpers.CreateUser(t, env.db, "stranger")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.db, author, "Bread", dinner, map[uuid.UUID]int{flour.ID: 500})

	path := "/api/v1/recipes/" + recipe.ID.String()

	w := env.request(t, http.MethodDelete, path, env.token(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, path, env.token(t, author), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	fan := testhelpers.CreateUser(t, env.db, "fan")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.db, author, "Bread", dinner, map[uuid.UUID]int{flour.ID: 500})

	token := env.token(t, fan)
	path := fmt.Sprintf("/api/v1/recipes/%s/favorite", recipe.ID)

	w := env.request(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var short types.ShortRecipeResponse
	decodeJSON(t, w, &short)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Bread", short.Name)

	w = env.request(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateUser(t, env.db, "author")
	shopper := testhelpers.CreateUser(t, env.db, "shopper")
	flour := testhelpers.CreateIngredient(t, env.db, "flour", "g")
	milk := testhelpers.CreateIngredient(t, env.db, "milk", "ml")
	dinner := testhelpers.CreateTag(t, env.db, "Dinner", "dinner")

	bread := testhelpers.CreateRecipe(t, env.db, author, "Bread", dinner, map[uuid.UUID]int{flour.ID: 200})
	pancakes := testhelpers.CreateRecipe(t, env.db, author, "Pancakes", dinner, map[uuid.UUID]int{flour.ID: 100, milk.ID: 300})

	token := env.token(t, shopper)

	// Empty cart downloads as 204, not an empty file.
	w := env.request(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, id := range []uuid.UUID{bread.ID, pancakes.ID} {
		w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/shopping_cart", id), token, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = env.request(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopper_shopping_list.txt")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	body := w.Body.String()
	assert.Contains(t, body, "flour --- 300 g")
	assert.Contains(t, body, "milk --- 300 ml")

	w = env.request(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
