package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// OrderExpirationWorker cancela pedidos que quedaron en "requested" sin
// respuesta del cocinero. Evita que el comprador espere para siempre.
type OrderExpirationWorker struct {
	db               *sql.DB
	expirationWindow time.Duration
	tickInterval     time.Duration
}

func NewOrderExpirationWorker(db *sql.DB) *OrderExpirationWorker {
	return &OrderExpirationWorker{
		db:               db,
		expirationWindow: 24 * time.Hour,
		tickInterval:     10 * time.Minute,
	}
}

func (w *OrderExpirationWorker) Start(ctx context.Context) {
	log.Println("🕒 worker de expiración de pedidos iniciado (ventana 24h)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireStaleOrders(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ worker de expiración de pedidos detenido")
			return
		case <-ticker.C:
			w.expireStaleOrders(ctx)
		}
	}
}

func (w *OrderExpirationWorker) expireStaleOrders(ctx context.Context) {
	query := `
		UPDATE orders
		SET status = 'cancelled'
		WHERE
			status = 'requested'
			AND created_at < NOW() - INTERVAL '24 hours'
		RETURNING id, buyer_id, created_at
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ error al buscar pedidos vencidos: %v", err)
		return
	}
	defer rows.Close()

	expiredCount := 0
	for rows.Next() {
		var orderID, buyerID string
		var createdAt time.Time

		if err := rows.Scan(&orderID, &buyerID, &createdAt); err != nil {
			log.Printf("⚠️ error al escanear pedido vencido: %v", err)
			continue
		}

		log.Printf("⏱️ pedido vencido: order=%s buyer=%s elapsed=%s",
			orderID, buyerID, time.Since(createdAt).Round(time.Minute))
		expiredCount++
	}

	if expiredCount > 0 {
		log.Printf("✅ %d pedido(s) cancelados por falta de respuesta", expiredCount)
	}
}
