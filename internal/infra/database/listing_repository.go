package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

type ListingRepository struct {
	DB *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

const listingColumns = `
	id, user_id, title, COALESCE(description, ''), price_cents, currency,
	portions, city, neighborhood, status, COALESCE(image_url, ''), created_at`

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (
			id, user_id, title, description, price_cents, currency,
			portions, city, neighborhood, status, image_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		l.ID,
		l.UserID,
		l.Title,
		nullString(l.Description),
		l.PriceCents,
		l.Currency,
		l.Portions,
		l.City,
		l.Neighborhood,
		string(l.Status),
		nullString(l.ImageURL),
		l.CreatedAt,
	)

	return err
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	query := `SELECT` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// FindActive es el feed público: solo activos, más nuevos primero.
func (r *ListingRepository) FindActive(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	query := `SELECT` + listingColumns + `
		FROM listings
		WHERE status = 'active' AND ($1 = '' OR city = $1)
		ORDER BY created_at DESC
		LIMIT 100`

	rows, err := r.DB.QueryContext(ctx, query, filter.City)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *ListingRepository) FindByUser(ctx context.Context, userID string) ([]*entity.Listing, error) {
	query := `SELECT` + listingColumns + `
		FROM listings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	query := `UPDATE listings SET status = $1 WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrListingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*entity.Listing, error) {
	var l entity.Listing
	var status string

	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Title,
		&l.Description,
		&l.PriceCents,
		&l.Currency,
		&l.Portions,
		&l.City,
		&l.Neighborhood,
		&status,
		&l.ImageURL,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Status = entity.ListingStatus(status)
	return &l, nil
}

func collectListings(rows *sql.Rows) ([]*entity.Listing, error) {
	listings := []*entity.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
