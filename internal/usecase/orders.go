package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

var ErrNotOrderParticipant = errors.New("no participas en este pedido")

type CreateOrderInput struct {
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderUseCase struct {
	Listings entity.ListingRepositoryInterface
	Orders   entity.OrderRepositoryInterface
}

func NewCreateOrderUseCase(listings entity.ListingRepositoryInterface, orders entity.OrderRepositoryInterface) *CreateOrderUseCase {
	return &CreateOrderUseCase{Listings: listings, Orders: orders}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, buyerID string, input CreateOrderInput) (*entity.Order, error) {
	if input.Quantity < 1 {
		return nil, &DomainError{Code: "INVALID_QUANTITY", Message: "quantity debe ser al menos 1"}
	}

	listing, err := uc.Listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingActive {
		return nil, &DomainError{Code: "LISTING_NOT_ACTIVE", Message: "el plato ya no está disponible"}
	}

	if listing.UserID == buyerID {
		return nil, &DomainError{Code: "OWN_LISTING", Message: "no puedes reservar tu propio plato"}
	}

	// El total se congela al reservar: cambios de precio posteriores no
	// afectan pedidos ya hechos.
	order := entity.NewOrder(listing, buyerID, input.Quantity)

	if err := uc.Orders.Create(ctx, order); err != nil {
		log.Printf("❌ Error guardando pedido: %v", err)
		return nil, &TechnicalError{Code: "ORDER_PERSIST_FAILED", Message: "no pudimos registrar tu pedido, intenta de nuevo"}
	}

	return order, nil
}

// CanTransition aplica la tabla de transiciones del MVP:
//
//	comprador: requested -> cancelled, ready -> completed
//	cocinero:  requested -> accepted|cancelled, accepted -> ready|cancelled,
//	           ready -> completed
func CanTransition(o *entity.Order, userID string, to entity.OrderStatus) bool {
	isBuyer := o.BuyerID == userID
	isSeller := o.SellerID == userID

	switch to {
	case entity.OrderAccepted:
		return isSeller && o.Status == entity.OrderRequested
	case entity.OrderReady:
		return isSeller && o.Status == entity.OrderAccepted
	case entity.OrderCompleted:
		return (isBuyer || isSeller) && o.Status == entity.OrderReady
	case entity.OrderCancelled:
		if isBuyer {
			return o.Status == entity.OrderRequested
		}
		return isSeller && (o.Status == entity.OrderRequested || o.Status == entity.OrderAccepted)
	}
	return false
}

type UpdateOrderStatusUseCase struct {
	Orders entity.OrderRepositoryInterface
}

func NewUpdateOrderStatusUseCase(orders entity.OrderRepositoryInterface) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{Orders: orders}
}

func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, userID, orderID string, to entity.OrderStatus) (*entity.Order, error) {
	if !to.Valid() {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: "estado de pedido desconocido"}
	}

	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return nil, ErrNotOrderParticipant
	}

	if !CanTransition(order, userID, to) {
		return nil, &DomainError{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"}
	}

	if err := uc.Orders.UpdateStatus(ctx, order.ID, to); err != nil {
		log.Printf("❌ Error actualizando estado del pedido %s: %v", order.ID, err)
		return nil, &TechnicalError{Code: "ORDER_UPDATE_FAILED", Message: "no pudimos actualizar el pedido, intenta de nuevo"}
	}

	order.Status = to
	return order, nil
}
