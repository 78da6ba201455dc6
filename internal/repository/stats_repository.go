package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// TopProduct is one row of the top-sellers list.
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url"`
	SoldQty      int       `json:"sold_qty"`
	RevenueCents int64     `json:"revenue_cents"`
}

// DashboardStats is the admin dashboard summary, recomputed on every call.
type DashboardStats struct {
	TotalUsers    int          `json:"total_users"`
	TotalProducts int          `json:"total_products"`
	TotalOrders   int          `json:"total_orders"`
	RevenueCents  int64        `json:"revenue_cents"`
	LowStockCount int          `json:"low_stock_count"`
	TopProducts   []TopProduct `json:"top_products"`
}

// StatsRepository defines the interface for admin aggregation queries
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Dashboard computes entity counts, revenue over settled statuses, the
// low-stock count and the five best sellers by units sold. Ties in the
// top-sellers list break on product id so the ordering is deterministic.
func (r *statsRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{TopProducts: []TopProduct{}}

	counts := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE status IN ('paid', 'shipped', 'completed')),
			(SELECT COUNT(*) FROM products WHERE stock < 5)
	`
	err := r.db.QueryRowContext(ctx, counts).Scan(
		&stats.TotalUsers,
		&stats.TotalProducts,
		&stats.TotalOrders,
		&stats.RevenueCents,
		&stats.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
	}

	topSellers := `
		SELECT p.id, p.name, COALESCE(p.image_url, ''),
		       SUM(oi.quantity) AS sold_qty,
		       SUM(oi.quantity * oi.price_cents) AS revenue_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name, p.image_url
		ORDER BY sold_qty DESC, p.id
		LIMIT 5
	`
	rows, err := r.db.QueryContext(ctx, topSellers)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sellers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tp TopProduct
		err := rows.Scan(&tp.ProductID, &tp.Name, &tp.ImageURL, &tp.SoldQty, &tp.RevenueCents)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top seller: %w", err)
		}
		stats.TopProducts = append(stats.TopProducts, tp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top sellers: %w", err)
	}

	return stats, nil
}
