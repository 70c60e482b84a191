package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"storefront-admin/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// NewTestIdentity creates the admin identity issued at login
func NewTestIdentity(opts ...func(*domain.Identity)) *domain.Identity {
	id := &domain.Identity{
		ID:    "1",
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  domain.RoleAdmin,
	}
	for _, opt := range opts {
		opt(id)
	}
	return id
}

// WithIdentityEmail sets the identity email
func WithIdentityEmail(email string) func(*domain.Identity) {
	return func(i *domain.Identity) {
		i.Email = email
	}
}

// WithRole sets the identity role
func WithRole(role domain.Role) func(*domain.Identity) {
	return func(i *domain.Identity) {
		i.Role = role
	}
}

// NewTestSession creates a live session for the admin identity with a known CSRF token
func NewTestSession(opts ...func(*domain.Session)) *domain.Session {
	now := time.Now()
	s := &domain.Session{
		Identity:  *NewTestIdentity(),
		CSRFToken: "test-csrf-token",
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.SessionTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCSRFToken sets the session CSRF token
func WithCSRFToken(token string) func(*domain.Session) {
	return func(s *domain.Session) {
		s.CSRFToken = token
	}
}

// WithSessionIdentity replaces the session identity
func WithSessionIdentity(identity *domain.Identity) func(*domain.Session) {
	return func(s *domain.Session) {
		s.Identity = *identity
	}
}

// ProductOptions allows customizing product fixture creation
type ProductOptions struct {
	ID           string
	Name         string
	Price        float64
	CategoryID   string
	CategoryName string
	Inventory    int
}

// NewTestProduct creates a test product with sensible defaults
func NewTestProduct(opts ...func(*ProductOptions)) *domain.Product {
	o := &ProductOptions{
		ID:           nextID("product"),
		Name:         fmt.Sprintf("Test Product %d", idCounter.Load()),
		Price:        19.99,
		CategoryID:   "category-1",
		CategoryName: "General",
		Inventory:    10,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &domain.Product{
		ID:           o.ID,
		ProductID:    o.ID[len(o.ID)-1:],
		Name:         o.Name,
		Price:        o.Price,
		CategoryID:   o.CategoryID,
		CategoryName: o.CategoryName,
		Inventory:    o.Inventory,
		ImageURLs:    []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"},
	}
}

// WithProductID sets the product document ID
func WithProductID(id string) func(*ProductOptions) {
	return func(o *ProductOptions) {
		o.ID = id
	}
}

// WithProductName sets the product name
func WithProductName(name string) func(*ProductOptions) {
	return func(o *ProductOptions) {
		o.Name = name
	}
}

// WithPrice sets the product price
func WithPrice(price float64) func(*ProductOptions) {
	return func(o *ProductOptions) {
		o.Price = price
	}
}

// OrderOptions allows customizing order fixture creation
type OrderOptions struct {
	ID         string
	TotalPrice float64
	Status     domain.ShipmentStatus
	CreatedAt  time.Time
	Email      string
}

// NewTestOrder creates a test order with sensible defaults
func NewTestOrder(opts ...func(*OrderOptions)) *domain.Order {
	o := &OrderOptions{
		ID:         nextID("order"),
		TotalPrice: 50,
		Status:     domain.ShipmentPending,
		CreatedAt:  time.Now(),
		Email:      "customer@example.com",
	}
	for _, opt := range opts {
		opt(o)
	}

	return &domain.Order{
		ID: o.ID,
		Customer: &domain.OrderCustomer{
			FirstName: "Test",
			LastName:  "Customer",
			Email:     o.Email,
		},
		Items:          []domain.OrderItem{{Name: "Test Product", Quantity: 1, Price: o.TotalPrice}},
		TotalPrice:     o.TotalPrice,
		PaymentMethod:  "card",
		ShipmentStatus: o.Status,
		CreatedAt:      o.CreatedAt,
	}
}

// WithOrderID sets the order ID
func WithOrderID(id string) func(*OrderOptions) {
	return func(o *OrderOptions) {
		o.ID = id
	}
}

// WithTotal sets the order total
func WithTotal(total float64) func(*OrderOptions) {
	return func(o *OrderOptions) {
		o.TotalPrice = total
	}
}

// WithOrderCreatedAt sets the order creation time
func WithOrderCreatedAt(t time.Time) func(*OrderOptions) {
	return func(o *OrderOptions) {
		o.CreatedAt = t
	}
}

// NewTestImages returns n small image uploads
func NewTestImages(n int) []domain.ImageUpload {
	images := make([]domain.ImageUpload, 0, n)
	for i := 0; i < n; i++ {
		images = append(images, domain.ImageUpload{
			Filename:    fmt.Sprintf("image-%d.png", i+1),
			ContentType: "image/png",
			Data:        []byte{0x89, 'P', 'N', 'G', byte(i)},
		})
	}
	return images
}

// NewTestProductFields returns valid product fields in the given category
func NewTestProductFields(categoryID string) domain.ProductFields {
	return domain.ProductFields{
		Name:       "Desk Lamp",
		Price:      49.5,
		CategoryID: categoryID,
		Tags:       []string{"desk", "led"},
		Inventory:  7,
	}
}
