package handler

import (
	"net/http"

	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"
)

// CustomerHandler serves customers and their reviews
type CustomerHandler struct {
	customers *service.CustomerService
	reviews   *service.ReviewService
}

func NewCustomerHandler(customers *service.CustomerService, reviews *service.ReviewService) *CustomerHandler {
	return &CustomerHandler{customers: customers, reviews: reviews}
}

// DeleteReviewRequest represents a review deletion request
type DeleteReviewRequest struct {
	ID string `json:"id"`
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch customers")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListReviews(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *CustomerHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	var req DeleteReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), middleware.Actor(r.Context()), req.ID); err != nil {
		writeServiceError(w, r, err, "Failed to delete review")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Review deleted successfully"})
}
