package entity

import (
	"context"
	"time"
)

// Role es el enum cerrado de rol.
// Los textos históricos del front ("Cocinero", "Comprador", "Ambos",
// "cliente") se mapean a estos valores en el usecase, nunca se guardan crudos.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleCook  Role = "cook"
	RoleBoth  Role = "both"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleCook || r == RoleBoth
}

// CanPublish indica si el rol puede publicar platos.
func (r Role) CanPublish() bool {
	return r == RoleCook || r == RoleBoth
}

type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	City      string    `json:"city,omitempty"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"` // normalizado: dígitos con "+" inicial opcional
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error
}
