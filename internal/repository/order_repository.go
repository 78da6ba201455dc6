package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shoekart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// InsufficientStockError reports a cart line whose quantity exceeds the
// product's current stock at checkout time.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CreateFromCart(ctx context.Context, order *domain.Order, lines []domain.CartLine, cartID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateFromCart converts cart lines into a persisted order inside a single
// transaction: order header, one order item per line at the captured price,
// a stock decrement per product and the cart clear. Any failure rolls the
// whole thing back.
//
// The stock decrement re-checks stock >= quantity in its WHERE clause, so two
// concurrent checkouts of the same product cannot drive stock negative; the
// loser aborts with InsufficientStockError.
func (r *orderRepository) CreateFromCart(ctx context.Context, order *domain.Order, lines []domain.CartLine, cartID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertOrder := `
		INSERT INTO orders (
			id, user_id, total_cents, payment_method, status,
			delivery_name, delivery_phone, delivery_address1, delivery_address2,
			delivery_city, delivery_state, delivery_postal_code, delivery_country,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13, $14, $14)
	`
	_, err = tx.ExecContext(
		ctx,
		insertOrder,
		order.ID,
		order.UserID,
		order.TotalCents,
		order.PaymentMethod,
		order.Status,
		order.DeliveryName,
		order.DeliveryPhone,
		order.DeliveryAddress1,
		order.DeliveryAddress2,
		order.DeliveryCity,
		order.DeliveryState,
		order.DeliveryPostalCode,
		order.DeliveryCountry,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	decrementStock := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, insertItem,
			uuid.New(), order.ID, line.ProductID, line.Quantity, line.PriceCents, order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		result, err := tx.ExecContext(ctx, decrementStock, line.Quantity, line.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &InsufficientStockError{ProductID: line.ProductID, ProductName: line.Name}
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return nil
}

const orderColumns = `
	id, user_id, total_cents, payment_method, status,
	delivery_name, delivery_phone, delivery_address1, COALESCE(delivery_address2, ''),
	delivery_city, delivery_state, delivery_postal_code, delivery_country,
	created_at, updated_at
`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalCents,
		&order.PaymentMethod,
		&order.Status,
		&order.DeliveryName,
		&order.DeliveryPhone,
		&order.DeliveryAddress1,
		&order.DeliveryAddress2,
		&order.DeliveryCity,
		&order.DeliveryState,
		&order.DeliveryPostalCode,
		&order.DeliveryCountry,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	return order, err
}

// ListByUser retrieves a user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListAll retrieves every order, newest first
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

// FindByIDForUser retrieves an order only if it belongs to the given user.
// Another user's order reads exactly like an absent one.
func (r *orderRepository) FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND user_id = $2`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// FindByID retrieves an order regardless of owner (admin use)
func (r *orderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// ListItems retrieves an order's lines joined with their products
func (r *orderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	query := `
		SELECT oi.product_id, p.name, COALESCE(p.image_url, ''), oi.quantity, oi.price_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(&line.ProductID, &line.Name, &line.ImageURL, &line.Quantity, &line.PriceCents)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return lines, nil
}

// UpdateStatus sets an order's status. Any status may follow any other.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
