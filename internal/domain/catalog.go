package domain

import (
	"context"
	"errors"
	"strings"
)

var ErrImageCount = errors.New("please upload between 2 and 4 images")

const (
	MinProductImages = 2
	MaxProductImages = 4
)

// Category groups products in the storefront.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Product is the typed view of a product document.
type Product struct {
	ID                 string   `json:"_id"`
	ProductID          string   `json:"product_id,omitempty"`
	Name               string   `json:"productName"`
	Slug               string   `json:"slug,omitempty"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	CategoryID         string   `json:"categoryId,omitempty"`
	CategoryName       string   `json:"category,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Colors             []string `json:"colors,omitempty"`
	Sizes              []string `json:"sizes,omitempty"`
	Inventory          int      `json:"inventory"`
	Material           string   `json:"material,omitempty"`
	Dimensions         string   `json:"dimensions,omitempty"`
	Weight             string   `json:"weight,omitempty"`
	ImageURLs          []string `json:"images,omitempty"`
}

// ImageUpload is a raw image submitted with a product form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductFields are the editable attributes of a product.
type ProductFields struct {
	Name               string
	Description        string
	Price              float64
	CategoryID         string
	Tags               []string
	DiscountPercentage float64
	Colors             []string
	Sizes              []string
	Inventory          int
	Material           string
	Dimensions         string
	Weight             string
}

// Validate checks the fields required for a new product.
func (f *ProductFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" || f.CategoryID == "" {
		return ErrInvalidInput
	}
	if f.Price < 0 || f.Inventory < 0 {
		return ErrInvalidInput
	}
	if f.DiscountPercentage < 0 || f.DiscountPercentage > 100 {
		return ErrInvalidInput
	}
	return nil
}

// NewProduct is the back-office request to create a product.
type NewProduct struct {
	ProductFields
	Images []ImageUpload
}

// Validate checks fields and the image count.
func (p *NewProduct) Validate() error {
	if len(p.Images) < MinProductImages || len(p.Images) > MaxProductImages {
		return ErrImageCount
	}
	return p.ProductFields.Validate()
}

// ProductDraft is a validated product ready to be written to the content store.
type ProductDraft struct {
	ProductFields
	ProductID     string
	Slug          string
	ImageAssetIDs []string
}

// ProductUpdate carries a partial product change. Nil fields are left untouched.
type ProductUpdate struct {
	Name               *string
	Description        *string
	Price              *float64
	CategoryID         *string
	Tags               []string
	DiscountPercentage *float64
	Colors             []string
	Sizes              []string
	Inventory          *int
	Material           *string
	Dimensions         *string
	Weight             *string

	// Images replace the product gallery when present.
	Images        []ImageUpload
	ImageAssetIDs []string
}

// Validate rejects out-of-range numeric values.
func (u *ProductUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrInvalidInput
	}
	if u.Price != nil && *u.Price < 0 {
		return ErrInvalidInput
	}
	if u.Inventory != nil && *u.Inventory < 0 {
		return ErrInvalidInput
	}
	if u.DiscountPercentage != nil && (*u.DiscountPercentage < 0 || *u.DiscountPercentage > 100) {
		return ErrInvalidInput
	}
	return nil
}

// ProductRepository defines access to product documents.
type ProductRepository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, draft *ProductDraft) (*Product, error)
	Update(ctx context.Context, id string, update *ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines access to category documents.
type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, category *Category) error
}

// AssetUploader stores binary assets in the content store.
type AssetUploader interface {
	UploadImage(ctx context.Context, image ImageUpload) (string, error)
}
