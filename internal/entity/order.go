package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("pedido no encontrado")

type OrderStatus string

// Flujo MVP: requested -> accepted -> ready -> completed (o cancelled).
const (
	OrderRequested OrderStatus = "requested"
	OrderAccepted  OrderStatus = "accepted"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderRequested, OrderAccepted, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         string      `json:"id"`
	ListingID  string      `json:"listing_id"`
	BuyerID    string      `json:"buyer_id"`
	SellerID   string      `json:"seller_id"`
	Quantity   int         `json:"quantity"`
	TotalCents int         `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

func NewOrder(listing *Listing, buyerID string, quantity int) *Order {
	return &Order{
		ID:         uuid.New().String(),
		ListingID:  listing.ID,
		BuyerID:    buyerID,
		SellerID:   listing.UserID,
		Quantity:   quantity,
		TotalCents: quantity * listing.PriceCents,
		Status:     OrderRequested,
		CreatedAt:  time.Now(),
	}
}

type OrderRepositoryInterface interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]*Order, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}
