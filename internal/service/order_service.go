package service

import (
	"context"
	"sort"
	"time"

	"storefront-admin/internal/domain"
)

// LatestOrdersLimit is the number of orders shown on the dashboard.
const LatestOrdersLimit = 5

// OrderService manages orders and the figures derived from them.
type OrderService struct {
	orders    domain.OrderRepository
	products  domain.ProductRepository
	customers domain.CustomerRepository
	events    domain.EventPublisher
	now       func() time.Time
}

func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	events domain.EventPublisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		events:    events,
		now:       time.Now,
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) LatestOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.Latest(ctx, LatestOrdersLimit)
}

func (s *OrderService) UpdateShipment(ctx context.Context, actor string, update *domain.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if err := s.orders.UpdateShipment(ctx, update); err != nil {
		return err
	}
	publishEvent(ctx, s.events, domain.EventOrderUpdated, update.OrderID, actor)
	return nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, actor, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	publishEvent(ctx, s.events, domain.EventOrderDeleted, id, actor)
	return nil
}

// MonthlyRevenue sums order totals per calendar month (UTC), oldest month first.
func (s *OrderService) MonthlyRevenue(ctx context.Context) ([]domain.RevenuePoint, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return revenueByMonth(orders), nil
}

func revenueByMonth(orders []*domain.Order) []domain.RevenuePoint {
	totals := make(map[string]float64)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		totals[monthKey(o.CreatedAt)] += o.TotalPrice
	}

	points := make([]domain.RevenuePoint, 0, len(totals))
	for month, revenue := range totals {
		points = append(points, domain.RevenuePoint{Month: month, Revenue: revenue})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Dashboard gathers the landing page figures.
func (s *OrderService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	var (
		summary domain.DashboardSummary
		err     error
	)

	if summary.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	current := monthKey(s.now())
	for _, o := range orders {
		if !o.CreatedAt.IsZero() && monthKey(o.CreatedAt) == current {
			summary.MonthlyRevenue += o.TotalPrice
		}
	}

	if summary.LatestOrders, err = s.orders.Latest(ctx, LatestOrdersLimit); err != nil {
		return nil, err
	}
	return &summary, nil
}
