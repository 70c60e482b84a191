package sanity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

// Document types stored in the dataset.
const (
	typeProduct  = "product"
	typeCategory = "category"
	typeOrder    = "order"
	typeCustomer = "customer"
	typeReview   = "review"
)

type reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

func newReference(id string) reference {
	return reference{Type: "reference", Ref: id}
}

type slugValue struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

func newSlug(s string) slugValue {
	return slugValue{Type: "slug", Current: s}
}

type imageValue struct {
	Key   string    `json:"_key"`
	Type  string    `json:"_type"`
	Asset reference `json:"asset"`
}

func newImages(assetIDs []string) []imageValue {
	images := make([]imageValue, 0, len(assetIDs))
	for _, id := range assetIDs {
		images = append(images, imageValue{
			Key:   uuid.NewString(),
			Type:  "image",
			Asset: newReference(id),
		})
	}
	return images
}

// parseTime accepts datetime and date-only values.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

// mapError translates content store failures into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if contentstore.IsNotFound(err) {
		return domain.ErrNotFound
	}
	var apiErr *contentstore.APIError
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Description), "not found") {
		return domain.ErrNotFound
	}
	return err
}
