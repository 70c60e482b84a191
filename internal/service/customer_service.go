package service

import (
	"context"

	"storefront-admin/internal/domain"
)

// CustomerService exposes read-only customer data.
type CustomerService struct {
	customers domain.CustomerRepository
}

func NewCustomerService(customers domain.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.List(ctx)
}

// ReviewService lists and moderates product reviews.
type ReviewService struct {
	reviews domain.ReviewRepository
	events  domain.EventPublisher
}

func NewReviewService(reviews domain.ReviewRepository, events domain.EventPublisher) *ReviewService {
	return &ReviewService{reviews: reviews, events: events}
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	return s.reviews.List(ctx)
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	publishEvent(ctx, s.events, domain.EventReviewDeleted, id, actor)
	return nil
}
