package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a user's working cart. Exactly one per user, created lazily on
// first access.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartItem is a (product, quantity) line within a cart. Quantity is clamped
// to available stock at write time.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine is a cart item joined with its product, as shown to the shopper
// and consumed by checkout.
type CartLine struct {
	CartItemID uuid.UUID `json:"cart_item_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	ImageURL   string    `json:"image_url"`
	Stock      int       `json:"stock"`
	Quantity   int       `json:"quantity"`
}

// LineTotalCents returns unit price times quantity for one line.
func (l CartLine) LineTotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}
