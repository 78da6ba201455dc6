package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodCOD  = "cod"
	PaymentMethodCard = "card"
)

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the immutable header of a completed purchase. Total and line
// prices are frozen at creation; only status may change afterwards.
type Order struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	TotalCents         int64     `json:"total_cents" db:"total_cents"`
	PaymentMethod      string    `json:"payment_method" db:"payment_method"`
	Status             string    `json:"status" db:"status"`
	DeliveryName       string    `json:"delivery_name" db:"delivery_name"`
	DeliveryPhone      string    `json:"delivery_phone" db:"delivery_phone"`
	DeliveryAddress1   string    `json:"delivery_address1" db:"delivery_address1"`
	DeliveryAddress2   string    `json:"delivery_address2" db:"delivery_address2"`
	DeliveryCity       string    `json:"delivery_city" db:"delivery_city"`
	DeliveryState      string    `json:"delivery_state" db:"delivery_state"`
	DeliveryPostalCode string    `json:"delivery_postal_code" db:"delivery_postal_code"`
	DeliveryCountry    string    `json:"delivery_country" db:"delivery_country"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// OrderItem is one purchased line, carrying the unit price at purchase time.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// OrderLine is an order item joined with its product for display.
type OrderLine struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
}
