package sanity

import (
	"context"
	"fmt"

	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
)

const orderProjection = `{
	_id,
	"customer": customer->{firstName, lastName, email},
	items[]{productId, name, quantity, price, color, size},
	address,
	totalPrice,
	paymentMethod,
	shipmentStatus,
	trackingNumber,
	shippingMethod,
	"createdAt": coalesce(createdAt, _createdAt),
	estimatedDeliveryDate
}`

// orderDocument keeps dates as strings; the dataset mixes datetime and date values.
type orderDocument struct {
	ID                    string                `json:"_id"`
	Customer              *domain.OrderCustomer `json:"customer"`
	Items                 []domain.OrderItem    `json:"items"`
	Address               *domain.Address       `json:"address"`
	TotalPrice            float64               `json:"totalPrice"`
	PaymentMethod         string                `json:"paymentMethod"`
	ShipmentStatus        string                `json:"shipmentStatus"`
	TrackingNumber        string                `json:"trackingNumber"`
	ShippingMethod        string                `json:"shippingMethod"`
	CreatedAt             string                `json:"createdAt"`
	EstimatedDeliveryDate string                `json:"estimatedDeliveryDate"`
}

func (d *orderDocument) toDomain() (*domain.Order, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}
	order := &domain.Order{
		ID:             d.ID,
		Customer:       d.Customer,
		Items:          d.Items,
		Address:        d.Address,
		TotalPrice:     d.TotalPrice,
		PaymentMethod:  d.PaymentMethod,
		ShipmentStatus: domain.ShipmentStatus(d.ShipmentStatus),
		TrackingNumber: d.TrackingNumber,
		ShippingMethod: d.ShippingMethod,
		CreatedAt:      created,
	}
	if d.EstimatedDeliveryDate != "" {
		eta, err := parseTime(d.EstimatedDeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", d.ID, err)
		}
		order.EstimatedDeliveryDate = &eta
	}
	return order, nil
}

// OrderRepository implements domain.OrderRepository on the content store
type OrderRepository struct {
	client *contentstore.Client
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(client *contentstore.Client) *OrderRepository {
	return &OrderRepository{client: client}
}

// List returns all orders, newest first
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.fetch(ctx, `*[_type == "order"] | order(coalesce(createdAt, _createdAt) desc) `+orderProjection)
}

// Latest returns the newest limit orders
func (r *OrderRepository) Latest(ctx context.Context, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		return []*domain.Order{}, nil
	}
	query := fmt.Sprintf(`*[_type == "order"] | order(coalesce(createdAt, _createdAt) desc) [0...%d] %s`, limit, orderProjection)
	return r.fetch(ctx, query)
}

func (r *OrderRepository) fetch(ctx context.Context, query string) ([]*domain.Order, error) {
	var docs []orderDocument
	if err := r.client.Fetch(ctx, query, nil, &docs); err != nil {
		return nil, mapError(err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Count returns the number of orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.client.Fetch(ctx, `count(*[_type == "order"])`, nil, &n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// UpdateShipment sets the fulfilment fields of an order
func (r *OrderRepository) UpdateShipment(ctx context.Context, update *domain.ShipmentUpdate) error {
	set := map[string]any{
		"shipmentStatus": string(update.Status),
		"trackingNumber": update.TrackingNumber,
	}
	if update.EstimatedDeliveryDate != nil {
		set["estimatedDeliveryDate"] = update.EstimatedDeliveryDate.Format("2006-01-02")
	}
	return mapError(r.client.Patch(update.OrderID).Set(set).Commit(ctx, nil))
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return mapError(r.client.Delete(ctx, id))
}
