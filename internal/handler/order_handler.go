package handler

import (
	"net/http"
	"strings"
	"time"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"
)

// OrderHandler serves orders, revenue and the dashboard summary
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ShipmentRequest represents a shipment update request
type ShipmentRequest struct {
	OrderID               string `json:"orderId"`
	ShipmentStatus        string `json:"shipmentStatus"`
	TrackingNumber        string `json:"trackingNumber"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

// DeleteOrderRequest represents an order deletion request
type DeleteOrderRequest struct {
	OrderID string `json:"orderId"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Latest(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.LatestOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateShipment sets status, tracking number and estimated delivery date
func (h *OrderHandler) UpdateShipment(w http.ResponseWriter, r *http.Request) {
	var req ShipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	update := &domain.ShipmentUpdate{
		OrderID:        strings.TrimSpace(req.OrderID),
		Status:         domain.ShipmentStatus(req.ShipmentStatus),
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
	}
	if req.EstimatedDeliveryDate != "" {
		eta, err := parseDeliveryDate(req.EstimatedDeliveryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid estimated delivery date")
			return
		}
		update.EstimatedDeliveryDate = &eta
	}

	if err := h.orders.UpdateShipment(r.Context(), middleware.Actor(r.Context()), update); err != nil {
		writeServiceError(w, r, err, "Failed to update shipment")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Shipment updated successfully"})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), middleware.Actor(r.Context()), req.OrderID); err != nil {
		writeServiceError(w, r, err, "Failed to delete order")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted successfully"})
}

// Revenue returns revenue per month, oldest first
func (h *OrderHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	points, err := h.orders.MonthlyRevenue(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error fetching revenue data")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// parseDeliveryDate accepts a date input value or a full timestamp.
func parseDeliveryDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
