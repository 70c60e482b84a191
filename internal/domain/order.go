package domain

import (
	"context"
	"time"
)

// ShipmentStatus is the fulfilment state of an order.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentInTransit ShipmentStatus = "inTransit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

// Valid reports whether s is a known shipment status.
func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPending, ShipmentShipped, ShipmentInTransit, ShipmentDelivered, ShipmentCancelled:
		return true
	}
	return false
}

type OrderCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type OrderItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
}

type Address struct {
	Country       string `json:"country,omitempty"`
	Province      string `json:"province,omitempty"`
	City          string `json:"city,omitempty"`
	Area          string `json:"area,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
	ZipCode       string `json:"zipCode,omitempty"`
}

// Order is the typed view of an order document.
type Order struct {
	ID                    string         `json:"_id"`
	Customer              *OrderCustomer `json:"customer,omitempty"`
	Items                 []OrderItem    `json:"items,omitempty"`
	Address               *Address       `json:"address,omitempty"`
	TotalPrice            float64        `json:"totalPrice"`
	PaymentMethod         string         `json:"paymentMethod,omitempty"`
	ShipmentStatus        ShipmentStatus `json:"shipmentStatus,omitempty"`
	TrackingNumber        string         `json:"trackingNumber,omitempty"`
	ShippingMethod        string         `json:"shippingMethod,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
}

// ShipmentUpdate changes the fulfilment fields of one order.
type ShipmentUpdate struct {
	OrderID               string
	Status                ShipmentStatus
	TrackingNumber        string
	EstimatedDeliveryDate *time.Time
}

// Validate requires an order id and a known status.
func (u *ShipmentUpdate) Validate() error {
	if u.OrderID == "" || !u.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// RevenuePoint is the revenue total of one calendar month (YYYY-MM).
type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// DashboardSummary backs the back-office landing cards.
type DashboardSummary struct {
	TotalProducts  int      `json:"totalProducts"`
	TotalCustomers int      `json:"totalCustomers"`
	TotalOrders    int      `json:"totalOrders"`
	MonthlyRevenue float64  `json:"monthlyRevenue"`
	LatestOrders   []*Order `json:"latestOrders"`
}

// OrderRepository defines access to order documents.
type OrderRepository interface {
	List(ctx context.Context) ([]*Order, error)
	Latest(ctx context.Context, limit int) ([]*Order, error)
	Count(ctx context.Context) (int, error)
	UpdateShipment(ctx context.Context, update *ShipmentUpdate) error
	Delete(ctx context.Context, id string) error
}
