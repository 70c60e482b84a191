package domain

import (
	"context"
	"time"
)

// Customer is the typed view of a customer document with order statistics.
type Customer struct {
	ID                 string `json:"_id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	TotalOrders        int    `json:"totalOrders"`
	DeliveredOrders    int    `json:"deliveredOrders"`
	NonDeliveredOrders int    `json:"nonDeliveredOrders"`
}

// TallyOrders fills the order counters from the statuses of the customer's orders.
// Cancelled orders count towards the total only.
func (c *Customer) TallyOrders(statuses []ShipmentStatus) {
	c.TotalOrders = len(statuses)
	c.DeliveredOrders = 0
	c.NonDeliveredOrders = 0
	for _, s := range statuses {
		switch s {
		case ShipmentDelivered:
			c.DeliveredOrders++
		case ShipmentPending, ShipmentShipped, ShipmentInTransit:
			c.NonDeliveredOrders++
		}
	}
}

// CustomerRepository defines access to customer documents.
type CustomerRepository interface {
	List(ctx context.Context) ([]*Customer, error)
	Count(ctx context.Context) (int, error)
}

// Review is the typed view of a product review.
type Review struct {
	ID            string    `json:"_id"`
	Rating        int       `json:"rating"`
	ReviewText    string    `json:"reviewText"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	ProductName   string    `json:"productName,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
}

// ReviewRepository defines access to review documents.
type ReviewRepository interface {
	List(ctx context.Context) ([]*Review, error)
	Delete(ctx context.Context, id string) error
}
