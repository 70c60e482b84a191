package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront-admin/internal/domain"
)

// CatalogService manages products and categories.
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	assets     domain.AssetUploader
	events     domain.EventPublisher
	newID      func() string
}

func NewCatalogService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	assets domain.AssetUploader,
	events domain.EventPublisher,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		assets:     assets,
		events:     events,
		newID:      ShortProductID,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.products.GetByID(ctx, id)
}

// CreateProduct uploads the images and writes the product document.
func (s *CatalogService) CreateProduct(ctx context.Context, actor string, req *domain.NewProduct) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	assetIDs, err := s.uploadImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	draft := &domain.ProductDraft{
		ProductFields: req.ProductFields,
		ProductID:     s.newID(),
		Slug:          ProductSlug(req.Name),
		ImageAssetIDs: assetIDs,
	}
	product, err := s.products.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "product created", "product_id", product.ID, "images", len(assetIDs))
	s.publish(ctx, domain.EventProductCreated, product.ID, actor)
	return product, nil
}

// UpdateProduct applies a partial update. New images replace the gallery.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor, id string, update *domain.ProductUpdate) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	if len(update.Images) > 0 {
		assetIDs, err := s.uploadImages(ctx, update.Images)
		if err != nil {
			return nil, err
		}
		update.ImageAssetIDs = assetIDs
	}

	product, err := s.products.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventProductUpdated, id, actor)
	return product, nil
}

// DeleteProduct removes the product and its reviews.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, domain.EventProductDeleted, id, actor)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidInput
	}

	category := &domain.Category{Name: name, Slug: CategorySlug(name)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventCategoryCreated, category.ID, actor)
	return category, nil
}

// uploadImages uploads concurrently and returns asset ids in input order.
// The first failure cancels the remaining uploads.
func (s *CatalogService) uploadImages(ctx context.Context, images []domain.ImageUpload) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	ids := make([]string, len(images))

	for i := range images {
		g.Go(func() error {
			id, err := s.assets.UploadImage(gctx, images[i])
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// publish is best effort; the mutation has already been committed.
func (s *CatalogService) publish(ctx context.Context, eventType domain.CatalogEventType, id, actor string) {
	publishEvent(ctx, s.events, eventType, id, actor)
}

func publishEvent(ctx context.Context, events domain.EventPublisher, eventType domain.CatalogEventType, id, actor string) {
	if events == nil {
		return
	}
	if err := events.PublishCatalogEvent(ctx, domain.NewCatalogEvent(eventType, id, actor)); err != nil {
		slog.WarnContext(ctx, "failed to publish catalog event",
			"type", string(eventType),
			"document_id", id,
			"error", err,
		)
	}
}
