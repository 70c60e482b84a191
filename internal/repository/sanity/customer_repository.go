package sanity

import (
	"context"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

type customerDocument struct {
	ID            string                  `json:"_id"`
	FirstName     string                  `json:"firstName"`
	LastName      string                  `json:"lastName"`
	Email         string                  `json:"email"`
	Phone         string                  `json:"phone"`
	OrderStatuses []domain.ShipmentStatus `json:"orderStatuses"`
}

// CustomerRepository implements domain.CustomerRepository on the content store
type CustomerRepository struct {
	client *contentstore.Client
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(client *contentstore.Client) *CustomerRepository {
	return &CustomerRepository{client: client}
}

// List returns customers with their order counters filled in
func (r *CustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `*[_type == "customer"] | order(_createdAt desc) {
		_id,
		firstName,
		lastName,
		email,
		phone,
		"orderStatuses": *[_type == "order" && customer._ref == ^._id].shipmentStatus
	}`

	var docs []customerDocument
	if err := r.client.Fetch(ctx, query, nil, &docs); err != nil {
		return nil, mapError(err)
	}

	customers := make([]*domain.Customer, 0, len(docs))
	for _, d := range docs {
		c := &domain.Customer{
			ID:        d.ID,
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
		}
		c.TallyOrders(d.OrderStatuses)
		customers = append(customers, c)
	}
	return customers, nil
}

// Count returns the number of customers
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.client.Fetch(ctx, `count(*[_type == "customer"])`, nil, &n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
