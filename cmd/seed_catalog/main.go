package main

import (
	"context"
	"encoding/csv"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/service"
)

// Seeds the ingredient catalog from a two-column (name, measurement unit)
// CSV and makes sure the default tag set exists. Safe to run repeatedly:
// everything is get-or-create.

var defaultTags = []struct {
	Name  string
	Color string
	Slug  string
}{
	{"Breakfast", "#E26C2D", "breakfast"},
	{"Lunch", "#49B64E", "lunch"},
	{"Dinner", "#8775D2", "dinner"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	file, err := os.Open(cfg.IngredientsCSV)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", cfg.IngredientsCSV, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.IngredientsCSV, err)
	}

	seeded := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if _, err := catalog.EnsureIngredient(ctx, row[0], row[1]); err != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", row[0], err)
		}
		seeded++
	}

	for _, tag := range defaultTags {
		if _, err := catalog.EnsureTag(ctx, tag.Name, tag.Color, tag.Slug); err != nil {
			log.Fatalf("Failed to seed tag %q: %v", tag.Slug, err)
		}
	}

	log.Printf("Seeded %d ingredients and %d tags", seeded, len(defaultTags))
}
