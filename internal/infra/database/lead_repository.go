package database

import (
	"context"
	"database/sql"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Insert guarda el lead ya normalizado. Los unique de email y phone los
// hace valer la base; el 23505 se clasifica arriba, en el usecase.
func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, city, role, phone, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		nullString(lead.Name),
		lead.Email,
		nullString(lead.City),
		string(lead.Role),
		nullString(lead.Phone),
		lead.Source,
		lead.CreatedAt,
	)

	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
