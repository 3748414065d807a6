package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/cache"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
)

type ListingHandler struct {
	Listings entity.ListingRepositoryInterface
	Profiles entity.ProfileRepositoryInterface
	Cache    *cache.ListingCache
}

func NewListingHandler(listings entity.ListingRepositoryInterface, profiles entity.ProfileRepositoryInterface, c *cache.ListingCache) *ListingHandler {
	return &ListingHandler{Listings: listings, Profiles: profiles, Cache: c}
}

type CreateListingRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PriceCents   int    `json:"price_cents"`
	Portions     int    `json:"portions"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
}

// Create maneja POST /api/listings. Solo cocineros (cook/both) publican;
// el resto va a completar el onboarding.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	profile, err := h.Profiles.FindByID(r.Context(), userID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		writeErrorResponse(w, http.StatusForbidden, "NO_PROFILE", "completa tu perfil antes de publicar")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo leer el perfil")
		return
	}
	if !profile.Role.CanPublish() {
		writeErrorResponse(w, http.StatusForbidden, "NOT_A_COOK", "tu perfil no permite publicar platos")
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	// Ciudad/barrio por defecto: los del perfil, como hace el front.
	if req.City == "" {
		req.City = profile.City
	}
	if req.Neighborhood == "" {
		req.Neighborhood = profile.Neighborhood
	}

	listing, err := entity.NewListing(userID, req.Title, req.Description, req.PriceCents, req.Portions, req.City, req.Neighborhood)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_LISTING", err.Error())
		return
	}

	if err := h.Listings.Create(r.Context(), listing); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo publicar el plato")
		return
	}

	middleware.RecordListingPublished()
	h.Cache.Invalidate(r.Context())

	writeJSON(w, http.StatusCreated, listing)
}

// Feed maneja GET /api/listings: el feed público, con caché corta.
func (h *ListingHandler) Feed(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	key := cache.FeedKey(city)

	if body, ok := h.Cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	listings, err := h.Listings.FindActive(r.Context(), entity.ListingFilter{City: city})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo cargar el feed")
		return
	}

	body, err := json.Marshal(listings)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "ENCODING_ERROR", "no se pudo cargar el feed")
		return
	}

	h.Cache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Detail maneja GET /api/listings/{id}.
func (h *ListingHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := h.Listings.FindByID(r.Context(), id)
	if errors.Is(err, entity.ErrListingNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "plato no encontrado")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo cargar el plato")
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// Mine maneja GET /api/my/listings: todos los platos del usuario,
// cualquiera sea su estado.
func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	listings, err := h.Listings.FindByUser(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudieron cargar tus platos")
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

type UpdateListingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus maneja PATCH /api/listings/{id}/status. Solo el dueño.
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateListingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	status := entity.ListingStatus(req.Status)
	if !status.Valid() {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_STATUS", "estado de plato desconocido")
		return
	}

	listing, err := h.Listings.FindByID(r.Context(), id)
	if errors.Is(err, entity.ErrListingNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "plato no encontrado")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo cargar el plato")
		return
	}

	if listing.UserID != userID {
		writeErrorResponse(w, http.StatusForbidden, "NOT_OWNER", "este plato no es tuyo")
		return
	}

	if err := h.Listings.UpdateStatus(r.Context(), id, status); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo actualizar el plato")
		return
	}

	listing.Status = status
	h.Cache.Invalidate(r.Context())

	writeJSON(w, http.StatusOK, listing)
}
