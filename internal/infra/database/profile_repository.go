package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// Upsert replica el onboarding del front: mismo id = mismo usuario,
// se pisa el perfil completo.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, role, city, neighborhood, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			city = EXCLUDED.city,
			neighborhood = EXCLUDED.neighborhood,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		p.ID,
		p.DisplayName,
		string(p.Role),
		nullString(p.City),
		nullString(p.Neighborhood),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `
		SELECT id, display_name, role, COALESCE(city, ''), COALESCE(neighborhood, ''), created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p entity.Profile
	var role string

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.DisplayName,
		&role,
		&p.City,
		&p.Neighborhood,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Role = entity.Role(role)
	return &p, nil
}
