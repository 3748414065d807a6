package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrListingNotFound = errors.New("plato no encontrado")

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingPaused   ListingStatus = "paused"
	ListingSoldOut  ListingStatus = "sold_out"
	ListingArchived ListingStatus = "archived"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingPaused, ListingSoldOut, ListingArchived:
		return true
	}
	return false
}

type Listing struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	PriceCents   int           `json:"price_cents"`
	Currency     string        `json:"currency"`
	Portions     int           `json:"portions"`
	City         string        `json:"city"`
	Neighborhood string        `json:"neighborhood"`
	Status       ListingStatus `json:"status"`
	ImageURL     string        `json:"image_url,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewListing crea el plato ya activo, como hace el front del MVP.
func NewListing(userID, title, description string, priceCents, portions int, city, neighborhood string) (*Listing, error) {
	l := &Listing{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        title,
		Description:  description,
		PriceCents:   priceCents,
		Currency:     "COP",
		Portions:     portions,
		City:         city,
		Neighborhood: neighborhood,
		Status:       ListingActive,
		CreatedAt:    time.Now(),
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listing) Validate() error {
	if l.Title == "" {
		return errors.New("title es obligatorio")
	}
	if l.PriceCents <= 0 {
		return errors.New("price_cents debe ser mayor que cero")
	}
	if l.Portions < 1 {
		return errors.New("portions debe ser al menos 1")
	}
	return nil
}

type ListingFilter struct {
	City   string
	Status ListingStatus
}

type ListingRepositoryInterface interface {
	Create(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindActive(ctx context.Context, filter ListingFilter) ([]*Listing, error)
	FindByUser(ctx context.Context, userID string) ([]*Listing, error)
	UpdateStatus(ctx context.Context, id string, status ListingStatus) error
}
