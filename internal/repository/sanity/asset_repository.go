package sanity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

// AssetRepository implements domain.AssetUploader on the content store
type AssetRepository struct {
	client *contentstore.Client
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(client *contentstore.Client) *AssetRepository {
	return &AssetRepository{client: client}
}

// UploadImage stores the image under a unique filename and returns the asset id
func (r *AssetRepository) UploadImage(ctx context.Context, image domain.ImageUpload) (string, error) {
	filename := fmt.Sprintf("%s-%s", uuid.NewString(), image.Filename)
	asset, err := r.client.UploadImage(ctx, filename, image.ContentType, image.Data)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", image.Filename, mapError(err))
	}
	return asset.ID, nil
}
