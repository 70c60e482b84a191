package sanity

import (
	"context"
	"fmt"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

const productProjection = `{
	_id,
	product_id,
	productName,
	"slug": slug.current,
	description,
	price,
	"categoryId": category._ref,
	"category": category->name,
	tags,
	discountPercentage,
	colors,
	sizes,
	inventory,
	material,
	dimensions,
	weight,
	"images": images[].asset->url
}`

// productDocument is the stored shape of a product.
type productDocument struct {
	Type               string       `json:"_type"`
	ProductID          string       `json:"product_id"`
	ProductName        string       `json:"productName"`
	Slug               slugValue    `json:"slug"`
	Description        string       `json:"description,omitempty"`
	Price              float64      `json:"price"`
	Category           reference    `json:"category"`
	Tags               []string     `json:"tags,omitempty"`
	DiscountPercentage float64      `json:"discountPercentage"`
	Colors             []string     `json:"colors,omitempty"`
	Sizes              []string     `json:"sizes,omitempty"`
	Inventory          int          `json:"inventory"`
	Material           string       `json:"material,omitempty"`
	Dimensions         string       `json:"dimensions,omitempty"`
	Weight             string       `json:"weight,omitempty"`
	Images             []imageValue `json:"images"`
}

// ProductRepository implements domain.ProductRepository on the content store
type ProductRepository struct {
	client *contentstore.Client
}

// NewProductRepository creates a new product repository
func NewProductRepository(client *contentstore.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// List returns all products, newest first
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `*[_type == "product"] | order(_createdAt desc) ` + productProjection

	products := make([]*domain.Product, 0)
	if err := r.client.Fetch(ctx, query, nil, &products); err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// GetByID returns a single product
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `*[_type == "product" && _id == $id][0]` + productProjection

	var product *domain.Product
	if err := r.client.Fetch(ctx, query, map[string]any{"id": id}, &product); err != nil {
		return nil, mapError(err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// Count returns the number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.client.Fetch(ctx, `count(*[_type == "product"])`, nil, &n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Create writes a product document and returns it as the list projection sees it
func (r *ProductRepository) Create(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error) {
	doc := productDocument{
		Type:               typeProduct,
		ProductID:          draft.ProductID,
		ProductName:        draft.Name,
		Slug:               newSlug(draft.Slug),
		Description:        draft.Description,
		Price:              draft.Price,
		Category:           newReference(draft.CategoryID),
		Tags:               draft.Tags,
		DiscountPercentage: draft.DiscountPercentage,
		Colors:             draft.Colors,
		Sizes:              draft.Sizes,
		Inventory:          draft.Inventory,
		Material:           draft.Material,
		Dimensions:         draft.Dimensions,
		Weight:             draft.Weight,
		Images:             newImages(draft.ImageAssetIDs),
	}

	id, err := r.client.Create(ctx, doc, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return r.GetByID(ctx, id)
}

// Update applies the non-nil fields of update. Slug and product_id are never changed.
func (r *ProductRepository) Update(ctx context.Context, id string, update *domain.ProductUpdate) (*domain.Product, error) {
	set := productUpdateFields(update)
	if len(set) > 0 {
		if err := r.client.Patch(id).Set(set).Commit(ctx, nil); err != nil {
			return nil, mapError(err)
		}
	}
	return r.GetByID(ctx, id)
}

func productUpdateFields(u *domain.ProductUpdate) map[string]any {
	set := map[string]any{}
	if u.Name != nil {
		set["productName"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.CategoryID != nil {
		set["category"] = newReference(*u.CategoryID)
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.DiscountPercentage != nil {
		set["discountPercentage"] = *u.DiscountPercentage
	}
	if u.Colors != nil {
		set["colors"] = u.Colors
	}
	if u.Sizes != nil {
		set["sizes"] = u.Sizes
	}
	if u.Inventory != nil {
		set["inventory"] = *u.Inventory
	}
	if u.Material != nil {
		set["material"] = *u.Material
	}
	if u.Dimensions != nil {
		set["dimensions"] = *u.Dimensions
	}
	if u.Weight != nil {
		set["weight"] = *u.Weight
	}
	if len(u.ImageAssetIDs) > 0 {
		set["images"] = newImages(u.ImageAssetIDs)
	}
	return set
}

// Delete removes a product together with the reviews that reference it,
// in a single transaction. The content store refuses to delete documents
// that are still strongly referenced.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	var reviewIDs []string
	query := `*[_type == "review" && references($id)]._id`
	if err := r.client.Fetch(ctx, query, map[string]any{"id": id}, &reviewIDs); err != nil {
		return mapError(err)
	}

	tx := r.client.Transaction()
	for _, reviewID := range reviewIDs {
		tx.Delete(reviewID)
	}
	tx.Delete(id)

	if _, err := tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}
