// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the storefront admin back-office.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"storefront-admin/internal/domain"
)

// ErrMockStore stands in for a failing content store.
var ErrMockStore = errors.New("mock: content store unavailable")

// MockProductRepository implements domain.ProductRepository for testing
type MockProductRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	ListFunc    func(ctx context.Context) ([]*domain.Product, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.Product, error)
	CountFunc   func(ctx context.Context) (int, error)
	CreateFunc  func(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error)
	UpdateFunc  func(ctx context.Context, id string, update *domain.ProductUpdate) (*domain.Product, error)
	DeleteFunc  func(ctx context.Context, id string) error

	// In-memory storage for simple tests
	Products map[string]*domain.Product
	Drafts   []*domain.ProductDraft
	Updates  map[string]*domain.ProductUpdate
}

// NewMockProductRepository creates a new MockProductRepository with initialized maps
func NewMockProductRepository(products ...*domain.Product) *MockProductRepository {
	m := &MockProductRepository{
		Products: make(map[string]*domain.Product),
		Updates:  make(map[string]*domain.ProductUpdate),
	}
	for _, p := range products {
		m.Products[p.ID] = p
	}
	return m
}

func (m *MockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Products), nil
}

func (m *MockProductRepository) Create(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, draft)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Drafts = append(m.Drafts, draft)
	p := &domain.Product{
		ID:                 nextID("product"),
		ProductID:          draft.ProductID,
		Name:               draft.Name,
		Slug:               draft.Slug,
		Description:        draft.Description,
		Price:              draft.Price,
		CategoryID:         draft.CategoryID,
		Tags:               draft.Tags,
		DiscountPercentage: draft.DiscountPercentage,
		Colors:             draft.Colors,
		Sizes:              draft.Sizes,
		Inventory:          draft.Inventory,
	}
	m.Products[p.ID] = p
	return p, nil
}

func (m *MockProductRepository) Update(ctx context.Context, id string, update *domain.ProductUpdate) (*domain.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.Updates[id] = update
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Inventory != nil {
		p.Inventory = *update.Inventory
	}
	if update.Tags != nil {
		p.Tags = update.Tags
	}
	return p, nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Products, id)
	return nil
}

// MockCategoryRepository implements domain.CategoryRepository for testing
type MockCategoryRepository struct {
	mu sync.RWMutex

	ListFunc   func(ctx context.Context) ([]*domain.Category, error)
	CreateFunc func(ctx context.Context, category *domain.Category) error

	Categories []*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository(categories ...*domain.Category) *MockCategoryRepository {
	return &MockCategoryRepository{Categories: categories}
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Category{}, m.Categories...), nil
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if category.ID == "" {
		category.ID = nextID("category")
	}
	m.Categories = append(m.Categories, category)
	return nil
}

// MockOrderRepository implements domain.OrderRepository for testing
type MockOrderRepository struct {
	mu sync.RWMutex

	ListFunc           func(ctx context.Context) ([]*domain.Order, error)
	LatestFunc         func(ctx context.Context, limit int) ([]*domain.Order, error)
	CountFunc          func(ctx context.Context) (int, error)
	UpdateShipmentFunc func(ctx context.Context, update *domain.ShipmentUpdate) error
	DeleteFunc         func(ctx context.Context, id string) error

	// Orders are kept newest first.
	Orders    []*domain.Order
	Shipments []*domain.ShipmentUpdate
}

// NewMockOrderRepository creates a new MockOrderRepository
func NewMockOrderRepository(orders ...*domain.Order) *MockOrderRepository {
	m := &MockOrderRepository{Orders: append([]*domain.Order{}, orders...)}
	sort.SliceStable(m.Orders, func(i, j int) bool { return m.Orders[i].CreatedAt.After(m.Orders[j].CreatedAt) })
	return m
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Order{}, m.Orders...), nil
}

func (m *MockOrderRepository) Latest(ctx context.Context, limit int) ([]*domain.Order, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit > len(m.Orders) {
		limit = len(m.Orders)
	}
	return append([]*domain.Order{}, m.Orders[:limit]...), nil
}

func (m *MockOrderRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Orders), nil
}

func (m *MockOrderRepository) UpdateShipment(ctx context.Context, update *domain.ShipmentUpdate) error {
	if m.UpdateShipmentFunc != nil {
		return m.UpdateShipmentFunc(ctx, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.Orders {
		if o.ID == update.OrderID {
			o.ShipmentStatus = update.Status
			o.TrackingNumber = update.TrackingNumber
			if update.EstimatedDeliveryDate != nil {
				o.EstimatedDeliveryDate = update.EstimatedDeliveryDate
			}
			m.Shipments = append(m.Shipments, update)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, o := range m.Orders {
		if o.ID == id {
			m.Orders = append(m.Orders[:i], m.Orders[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockCustomerRepository implements domain.CustomerRepository for testing
type MockCustomerRepository struct {
	ListFunc  func(ctx context.Context) ([]*domain.Customer, error)
	CountFunc func(ctx context.Context) (int, error)

	Customers []*domain.Customer
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return append([]*domain.Customer{}, m.Customers...), nil
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return len(m.Customers), nil
}

// MockReviewRepository implements domain.ReviewRepository for testing
type MockReviewRepository struct {
	mu sync.Mutex

	ListFunc   func(ctx context.Context) ([]*domain.Review, error)
	DeleteFunc func(ctx context.Context, id string) error

	Reviews []*domain.Review
}

func (m *MockReviewRepository) List(ctx context.Context) ([]*domain.Review, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Review{}, m.Reviews...), nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.Reviews {
		if r.ID == id {
			m.Reviews = append(m.Reviews[:i], m.Reviews[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockAssetUploader implements domain.AssetUploader for testing
type MockAssetUploader struct {
	mu sync.Mutex

	UploadImageFunc func(ctx context.Context, image domain.ImageUpload) (string, error)

	Uploaded []string
}

func (m *MockAssetUploader) UploadImage(ctx context.Context, image domain.ImageUpload) (string, error) {
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, image)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploaded = append(m.Uploaded, image.Filename)
	return "image-" + image.Filename, nil
}

// Calls returns the filenames uploaded so far
func (m *MockAssetUploader) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.Uploaded...)
}

// MockEventPublisher implements domain.EventPublisher for testing
type MockEventPublisher struct {
	mu sync.RWMutex

	PublishFunc func(ctx context.Context, event *domain.CatalogEvent) error

	Events []*domain.CatalogEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]*domain.CatalogEvent, 0)}
}

func (m *MockEventPublisher) PublishCatalogEvent(ctx context.Context, event *domain.CatalogEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Published returns all recorded events
func (m *MockEventPublisher) Published() []*domain.CatalogEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.CatalogEvent{}, m.Events...)
}

// Reset clears all recorded events
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = make([]*domain.CatalogEvent, 0)
}

// MockCredentialChecker implements domain.CredentialChecker for testing
type MockCredentialChecker struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (*domain.Identity, error)

	// Accepted credentials when no override is set
	Email    string
	Password string
}

func (m *MockCredentialChecker) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	if email != m.Email || password != m.Password {
		return nil, domain.ErrInvalidCredentials
	}
	return NewTestIdentity(WithIdentityEmail(email)), nil
}

// MockSessionReader returns a fixed session, or none when Session is nil
type MockSessionReader struct {
	Session *domain.Session
	calls   atomic.Int32
}

func (m *MockSessionReader) Current(r *http.Request) (*domain.Session, bool) {
	m.calls.Add(1)
	if m.Session == nil {
		return nil, false
	}
	return m.Session, true
}

// Calls reports how many times Current was invoked
func (m *MockSessionReader) Calls() int {
	return int(m.calls.Load())
}
