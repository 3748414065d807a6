package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/entity"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, listing_id, buyer_id, seller_id, quantity, total_cents, status, created_at`

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, listing_id, buyer_id, seller_id, quantity, total_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		o.ID,
		o.ListingID,
		o.BuyerID,
		o.SellerID,
		o.Quantity,
		o.TotalCents,
		string(o.Status),
		o.CreatedAt,
	)

	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	return r.findBy(ctx, "buyer_id", buyerID)
}

func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	return r.findBy(ctx, "seller_id", sellerID)
}

func (r *OrderRepository) findBy(ctx context.Context, column, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var status string

	err := row.Scan(
		&o.ID,
		&o.ListingID,
		&o.BuyerID,
		&o.SellerID,
		&o.Quantity,
		&o.TotalCents,
		&status,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = entity.OrderStatus(status)
	return &o, nil
}
