package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// CreateCategory derives the slug from the name. A name that slugs to an
// existing category is a conflict.
func (s *Store) CreateCategory(ctx context.Context, name string, description *string) (models.Category, error) {
	now := s.timestamp()
	c := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Slug == "" {
		c.Slug = c.ID
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Category{}, wrap("store: create category", err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, wrap("store: list categories", err)
	}
	return categories, nil
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c, s.q(`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`), slug)
	return c, wrap("store: category by slug", err)
}
