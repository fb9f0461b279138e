package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// NewTestDB opens an isolated in-memory SQLite database with the full
// schema applied. TranslateError matches the production config so the
// duplicate-key mapping behaves the same.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateUser inserts a user with a fixed test password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

// CreateIngredient inserts a catalog ingredient.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient %q: %v", name, err)
	}
	return ingredient
}

// CreateTag inserts a tag.
func CreateTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: "#49B64E", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag %q: %v", slug, err)
	}
	return tag
}

// CreateRecipe inserts a recipe with the given tag and ingredient amounts.
func CreateRecipe(t *testing.T, db *gorm.DB, author models.User, name string, tag models.Tag, amounts map[uuid.UUID]int) models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "test recipe",
		CookingTime: 10,
		Tags:        []models.Tag{tag},
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe %q: %v", name, err)
	}

	for ingredientID, amount := range amounts {
		row := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredientID,
			Amount:       amount,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to attach ingredient to %q: %v", name, err)
		}
	}
	return recipe
}
