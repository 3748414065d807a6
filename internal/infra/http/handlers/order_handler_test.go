package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/usecase"
)

type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepo) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepo) FindActive(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepo) FindByUser(ctx context.Context, userID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepo) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepo) FindByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepo) FindBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestCreateOrderHandler(t *testing.T) {
	listings := new(MockListingRepo)
	orders := new(MockOrderRepo)

	listings.On("FindByID", mock.Anything, "listing-1").Return(&entity.Listing{
		ID:         "listing-1",
		UserID:     "cook-1",
		Title:      "Sancocho de gallina",
		PriceCents: 1800000,
		Currency:   "COP",
		Portions:   6,
		Status:     entity.ListingActive,
	}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	handler := NewOrderHandler(
		usecase.NewCreateOrderUseCase(listings, orders),
		usecase.NewUpdateOrderStatusUseCase(orders),
		orders,
	)

	req := authedRequest("POST", "/api/orders", `{"listing_id": "listing-1", "quantity": 2}`, "buyer-1")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var order entity.Order
	json.NewDecoder(w.Body).Decode(&order)
	assert.Equal(t, 3600000, order.TotalCents)
	assert.Equal(t, entity.OrderRequested, order.Status)
	assert.Equal(t, "buyer-1", order.BuyerID)
}

func TestCreateOrderHandlerPlatoPropio(t *testing.T) {
	listings := new(MockListingRepo)
	orders := new(MockOrderRepo)

	listings.On("FindByID", mock.Anything, "listing-1").Return(&entity.Listing{
		ID:         "listing-1",
		UserID:     "cook-1",
		PriceCents: 1000,
		Status:     entity.ListingActive,
	}, nil)

	handler := NewOrderHandler(
		usecase.NewCreateOrderUseCase(listings, orders),
		usecase.NewUpdateOrderStatusUseCase(orders),
		orders,
	)

	req := authedRequest("POST", "/api/orders", `{"listing_id": "listing-1", "quantity": 1}`, "cook-1")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListOrdersHandler(t *testing.T) {
	orders := new(MockOrderRepo)

	orders.On("FindByBuyer", mock.Anything, "user-1").Return([]*entity.Order{
		{ID: "o1", BuyerID: "user-1", Status: entity.OrderRequested},
	}, nil)
	orders.On("FindBySeller", mock.Anything, "user-1").Return([]*entity.Order{}, nil)

	handler := NewOrderHandler(nil, nil, orders)

	req := authedRequest("GET", "/api/orders", "", "user-1")
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp MyOrdersResponse
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Len(t, resp.AsBuyer, 1)
	assert.Empty(t, resp.AsSeller)
}
