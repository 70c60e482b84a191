package sanity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

type reviewDocument struct {
	ID            string  `json:"_id"`
	Rating        float64 `json:"rating"`
	ReviewText    string  `json:"reviewText"`
	CustomerEmail string  `json:"customerEmail"`
	CreatedAt     string  `json:"createdAt"`
	ProductName   string  `json:"productName"`
	FirstName     string  `json:"customerFirstName"`
	LastName      string  `json:"customerLastName"`
}

// ReviewRepository implements domain.ReviewRepository on the content store
type ReviewRepository struct {
	client *contentstore.Client
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(client *contentstore.Client) *ReviewRepository {
	return &ReviewRepository{client: client}
}

// List returns reviews with product and customer names resolved
func (r *ReviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	query := `*[_type == "review"] | order(coalesce(createdAt, _createdAt) desc) {
		_id,
		rating,
		reviewText,
		customerEmail,
		"createdAt": coalesce(createdAt, _createdAt),
		"productName": product->productName,
		"customerFirstName": customer->firstName,
		"customerLastName": customer->lastName
	}`

	var docs []reviewDocument
	if err := r.client.Fetch(ctx, query, nil, &docs); err != nil {
		return nil, mapError(err)
	}

	reviews := make([]*domain.Review, 0, len(docs))
	for _, d := range docs {
		created, err := parseTime(d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("review %s: %w", d.ID, err)
		}
		reviews = append(reviews, &domain.Review{
			ID:            d.ID,
			Rating:        int(math.Round(d.Rating)),
			ReviewText:    d.ReviewText,
			CustomerEmail: d.CustomerEmail,
			CreatedAt:     created,
			ProductName:   d.ProductName,
			CustomerName:  strings.TrimSpace(d.FirstName + " " + d.LastName),
		})
	}
	return reviews, nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return mapError(r.client.Delete(ctx, id))
}
