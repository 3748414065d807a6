package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) FindActive(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByUser(ctx context.Context, userID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func activeListing() *entity.Listing {
	return &entity.Listing{
		ID:         "listing-1",
		UserID:     "cook-1",
		Title:      "Ajiaco santafereño",
		PriceCents: 1500000,
		Currency:   "COP",
		Portions:   4,
		Status:     entity.ListingActive,
	}
}

// ============ CREAR PEDIDO ============

func TestCreateOrderCalculaTotal(t *testing.T) {
	listings := new(MockListingRepository)
	orders := new(MockOrderRepository)
	uc := NewCreateOrderUseCase(listings, orders)

	listings.On("FindByID", mock.Anything, "listing-1").Return(activeListing(), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := uc.Execute(context.Background(), "buyer-1", CreateOrderInput{ListingID: "listing-1", Quantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, 3000000, order.TotalCents)
	assert.Equal(t, "cook-1", order.SellerID)
	assert.Equal(t, entity.OrderRequested, order.Status)
}

func TestCreateOrderRechazaPlatoInactivo(t *testing.T) {
	listings := new(MockListingRepository)
	uc := NewCreateOrderUseCase(listings, new(MockOrderRepository))

	paused := activeListing()
	paused.Status = entity.ListingPaused
	listings.On("FindByID", mock.Anything, "listing-1").Return(paused, nil)

	_, err := uc.Execute(context.Background(), "buyer-1", CreateOrderInput{ListingID: "listing-1", Quantity: 1})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestCreateOrderRechazaPlatoPropio(t *testing.T) {
	listings := new(MockListingRepository)
	uc := NewCreateOrderUseCase(listings, new(MockOrderRepository))

	listings.On("FindByID", mock.Anything, "listing-1").Return(activeListing(), nil)

	_, err := uc.Execute(context.Background(), "cook-1", CreateOrderInput{ListingID: "listing-1", Quantity: 1})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestCreateOrderRechazaCantidadInvalida(t *testing.T) {
	uc := NewCreateOrderUseCase(new(MockListingRepository), new(MockOrderRepository))

	_, err := uc.Execute(context.Background(), "buyer-1", CreateOrderInput{ListingID: "listing-1", Quantity: 0})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestCreateOrderFallaDeBaseEsTecnica(t *testing.T) {
	listings := new(MockListingRepository)
	orders := new(MockOrderRepository)
	uc := NewCreateOrderUseCase(listings, orders)

	listings.On("FindByID", mock.Anything, "listing-1").Return(activeListing(), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := uc.Execute(context.Background(), "buyer-1", CreateOrderInput{ListingID: "listing-1", Quantity: 1})

	assert.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	// El detalle de infraestructura no se filtra al cliente.
	assert.NotContains(t, err.Error(), "connection refused")
}

// ============ TRANSICIONES ============

func orderIn(status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:       "order-1",
		BuyerID:  "buyer-1",
		SellerID: "cook-1",
		Status:   status,
	}
}

func TestCanTransitionTablaCompleta(t *testing.T) {
	cases := []struct {
		from entity.OrderStatus
		user string
		to   entity.OrderStatus
		want bool
	}{
		// comprador
		{entity.OrderRequested, "buyer-1", entity.OrderCancelled, true},
		{entity.OrderReady, "buyer-1", entity.OrderCompleted, true},
		{entity.OrderRequested, "buyer-1", entity.OrderAccepted, false},
		{entity.OrderAccepted, "buyer-1", entity.OrderCancelled, false},
		{entity.OrderAccepted, "buyer-1", entity.OrderReady, false},
		// cocinero
		{entity.OrderRequested, "cook-1", entity.OrderAccepted, true},
		{entity.OrderRequested, "cook-1", entity.OrderCancelled, true},
		{entity.OrderAccepted, "cook-1", entity.OrderReady, true},
		{entity.OrderAccepted, "cook-1", entity.OrderCancelled, true},
		{entity.OrderReady, "cook-1", entity.OrderCompleted, true},
		{entity.OrderReady, "cook-1", entity.OrderCancelled, false},
		{entity.OrderCompleted, "cook-1", entity.OrderCancelled, false},
		// tercero
		{entity.OrderRequested, "otro", entity.OrderCancelled, false},
		{entity.OrderReady, "otro", entity.OrderCompleted, false},
	}

	for _, tc := range cases {
		got := CanTransition(orderIn(tc.from), tc.user, tc.to)
		assert.Equal(t, tc.want, got, "%s -> %s por %s", tc.from, tc.to, tc.user)
	}
}

func TestUpdateOrderStatusAceptado(t *testing.T) {
	orders := new(MockOrderRepository)
	uc := NewUpdateOrderStatusUseCase(orders)

	orders.On("FindByID", mock.Anything, "order-1").Return(orderIn(entity.OrderRequested), nil)
	orders.On("UpdateStatus", mock.Anything, "order-1", entity.OrderAccepted).Return(nil)

	order, err := uc.Execute(context.Background(), "cook-1", "order-1", entity.OrderAccepted)

	assert.NoError(t, err)
	assert.Equal(t, entity.OrderAccepted, order.Status)
	orders.AssertExpectations(t)
}

func TestUpdateOrderStatusTerceroNoParticipa(t *testing.T) {
	orders := new(MockOrderRepository)
	uc := NewUpdateOrderStatusUseCase(orders)

	orders.On("FindByID", mock.Anything, "order-1").Return(orderIn(entity.OrderRequested), nil)

	_, err := uc.Execute(context.Background(), "intruso", "order-1", entity.OrderCancelled)

	assert.ErrorIs(t, err, ErrNotOrderParticipant)
}

func TestUpdateOrderStatusTransicionInvalida(t *testing.T) {
	orders := new(MockOrderRepository)
	uc := NewUpdateOrderStatusUseCase(orders)

	orders.On("FindByID", mock.Anything, "order-1").Return(orderIn(entity.OrderCompleted), nil)

	_, err := uc.Execute(context.Background(), "cook-1", "order-1", entity.OrderCancelled)

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusFallaDeBaseEsTecnica(t *testing.T) {
	orders := new(MockOrderRepository)
	uc := NewUpdateOrderStatusUseCase(orders)

	orders.On("FindByID", mock.Anything, "order-1").Return(orderIn(entity.OrderRequested), nil)
	orders.On("UpdateStatus", mock.Anything, "order-1", entity.OrderAccepted).Return(errors.New("connection refused"))

	_, err := uc.Execute(context.Background(), "cook-1", "order-1", entity.OrderAccepted)

	assert.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	assert.NotContains(t, err.Error(), "connection refused")
}
