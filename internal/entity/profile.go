package entity

import (
	"context"
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("perfil no encontrado")

// Profile es el perfil público mínimo del MVP: solo barrio y ciudad,
// nunca dirección exacta.
type Profile struct {
	ID           string    `json:"id"` // user id del proveedor de auth
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Profile) Validate() error {
	if p.DisplayName == "" {
		return errors.New("display_name es obligatorio")
	}
	if !p.Role.Valid() {
		return errors.New("role debe ser buyer, cook o both")
	}
	return nil
}

type ProfileRepositoryInterface interface {
	Upsert(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
}
