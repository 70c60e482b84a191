package sanity

import (
	"context"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository on the content store
type CategoryRepository struct {
	client *contentstore.Client
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(client *contentstore.Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `*[_type == "category"] | order(name asc) {_id, name, "slug": slug.current}`

	categories := make([]*domain.Category, 0)
	if err := r.client.Fetch(ctx, query, nil, &categories); err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// Create stores a category and fills in its generated id
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	doc := struct {
		Type string    `json:"_type"`
		Name string    `json:"name"`
		Slug slugValue `json:"slug"`
	}{
		Type: typeCategory,
		Name: category.Name,
		Slug: newSlug(category.Slug),
	}

	id, err := r.client.Create(ctx, doc, nil)
	if err != nil {
		return mapError(err)
	}
	category.ID = id
	return nil
}
