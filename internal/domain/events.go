package domain

import (
	"context"
	"time"
)

// CatalogEventType names a change made through the back-office.
type CatalogEventType string

const (
	EventProductCreated  CatalogEventType = "product.created"
	EventProductUpdated  CatalogEventType = "product.updated"
	EventProductDeleted  CatalogEventType = "product.deleted"
	EventCategoryCreated CatalogEventType = "category.created"
	EventOrderUpdated    CatalogEventType = "order.updated"
	EventOrderDeleted    CatalogEventType = "order.deleted"
	EventReviewDeleted   CatalogEventType = "review.deleted"
)

// CatalogEvent is published after a successful content-store mutation so
// storefront caches can revalidate the affected document.
type CatalogEvent struct {
	Type       CatalogEventType `json:"type"`
	DocumentID string           `json:"document_id"`
	Actor      string           `json:"actor,omitempty"`
	Timestamp  int64            `json:"timestamp"`
}

// NewCatalogEvent stamps an event with the current time.
func NewCatalogEvent(eventType CatalogEventType, documentID, actor string) *CatalogEvent {
	return &CatalogEvent{
		Type:       eventType,
		DocumentID: documentID,
		Actor:      actor,
		Timestamp:  time.Now().Unix(),
	}
}

// EventPublisher delivers catalog events to interested consumers.
type EventPublisher interface {
	PublishCatalogEvent(ctx context.Context, event *CatalogEvent) error
}
