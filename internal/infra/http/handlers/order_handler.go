package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/usecase"
)

type OrderHandler struct {
	CreateUC *usecase.CreateOrderUseCase
	UpdateUC *usecase.UpdateOrderStatusUseCase
	Orders   entity.OrderRepositoryInterface
}

func NewOrderHandler(createUC *usecase.CreateOrderUseCase, updateUC *usecase.UpdateOrderStatusUseCase, orders entity.OrderRepositoryInterface) *OrderHandler {
	return &OrderHandler{CreateUC: createUC, UpdateUC: updateUC, Orders: orders}
}

// Create maneja POST /api/orders (la "reserva" del front).
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var input usecase.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	order, err := h.CreateUC.Execute(r.Context(), userID, input)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	middleware.RecordOrderCreated()
	writeJSON(w, http.StatusCreated, order)
}

type MyOrdersResponse struct {
	AsBuyer  []*entity.Order `json:"as_buyer"`
	AsSeller []*entity.Order `json:"as_seller"`
}

// List maneja GET /api/orders: los pedidos del usuario en ambos roles,
// como las dos secciones de la página de pedidos.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	asBuyer, err := h.Orders.FindByBuyer(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudieron cargar tus pedidos")
		return
	}

	asSeller, err := h.Orders.FindBySeller(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudieron cargar tus pedidos")
		return
	}

	writeJSON(w, http.StatusOK, MyOrdersResponse{AsBuyer: asBuyer, AsSeller: asSeller})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus maneja PATCH /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	order, err := h.UpdateUC.Execute(r.Context(), userID, id, entity.OrderStatus(req.Status))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	var techErr *usecase.TechnicalError

	switch {
	case errors.Is(err, entity.ErrListingNotFound):
		writeErrorResponse(w, http.StatusNotFound, "LISTING_NOT_FOUND", "plato no encontrado")
	case errors.Is(err, entity.ErrOrderNotFound):
		writeErrorResponse(w, http.StatusNotFound, "ORDER_NOT_FOUND", "pedido no encontrado")
	case errors.Is(err, usecase.ErrNotOrderParticipant):
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", "no participas en este pedido")
	case errors.As(err, &domainErr):
		writeErrorResponse(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
	case errors.As(err, &techErr):
		writeErrorResponse(w, http.StatusInternalServerError, techErr.Code, techErr.Message)
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo procesar el pedido")
	}
}
