package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/models"
)

// CatalogService serves the read-only tag and ingredient catalogs.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// SearchIngredients returns ingredients whose name contains the fragment,
// case-insensitively, with prefix matches ranked before substring-only
// matches and ties broken by name. An empty fragment lists the whole
// catalog in name order.
func (s *CatalogService) SearchIngredients(ctx context.Context, fragment string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})

	if fragment != "" {
		frag := escapeLike(strings.ToLower(fragment))
		query = query.
			Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+frag+"%").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "CASE WHEN LOWER(name) LIKE ? ESCAPE '\\' THEN 0 ELSE 1 END, name ASC",
				Vars: []interface{}{frag + "%"},
			}})
	} else {
		query = query.Order("name ASC")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// likeEscaper neutralizes the LIKE wildcards so a search fragment matches
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// EnsureIngredient get-or-creates a catalog entry; used by the CSV seeder.
func (s *CatalogService) EnsureIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	err := s.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		FirstOrCreate(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// EnsureTag get-or-creates a tag by slug; used by the seeder.
func (s *CatalogService) EnsureTag(ctx context.Context, name, color, slug string) (*models.Tag, error) {
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
