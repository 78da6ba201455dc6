package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shoekart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart data access. Carts are
// created lazily: GetOrCreate is the only way to obtain one.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	Lines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error)
	InsertItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Touch(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreate returns the user's cart, inserting it on first access. The
// unique index on user_id makes the insert race-safe.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	insert := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), userID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// Lines retrieves the cart's items joined with their products.
func (r *cartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	query := `
		SELECT ci.id, p.id, p.name, p.price_cents, COALESCE(p.image_url, ''), p.stock, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.CartItemID,
			&line.ProductID,
			&line.Name,
			&line.PriceCents,
			&line.ImageURL,
			&line.Stock,
			&line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// FindItem retrieves a cart item by (cart, product) pair
func (r *cartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`
	return r.scanItem(r.db.QueryRowContext(ctx, query, cartID, productID))
}

// FindItemByID retrieves a cart item by its ID
func (r *cartRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1
	`
	return r.scanItem(r.db.QueryRowContext(ctx, query, itemID))
}

func (r *cartRepository) scanItem(row *sql.Row) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return item, nil
}

// InsertItem inserts a new cart line
func (r *cartRepository) InsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// UpdateItemQuantity sets a cart line's quantity and refreshes updated_at
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteItem removes a cart line. Deleting an absent line is not an error.
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// Touch refreshes the cart's updated_at timestamp
func (r *cartRepository) Touch(ctx context.Context, cartID uuid.UUID) error {
	query := `UPDATE carts SET updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return nil
}
