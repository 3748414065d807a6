package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
)

type ProfileHandler struct {
	Profiles entity.ProfileRepositoryInterface
}

func NewProfileHandler(profiles entity.ProfileRepositoryInterface) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles}
}

// Get maneja GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	profile, err := h.Profiles.FindByID(r.Context(), userID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "perfil no encontrado")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo leer el perfil")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type UpsertProfileRequest struct {
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
}

// Upsert maneja PUT /api/profile, el onboarding.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	profile := &entity.Profile{
		ID:           userID,
		DisplayName:  req.DisplayName,
		Role:         entity.Role(req.Role),
		City:         req.City,
		Neighborhood: req.Neighborhood,
	}

	if err := profile.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_PROFILE", err.Error())
		return
	}

	if err := h.Profiles.Upsert(r.Context(), profile); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "no se pudo guardar el perfil")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
