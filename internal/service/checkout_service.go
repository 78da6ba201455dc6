package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoekart/internal/domain"
	"shoekart/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// CheckoutInput carries the validated payment and delivery fields.
type CheckoutInput struct {
	PaymentMethod      string
	DeliveryName       string
	DeliveryPhone      string
	DeliveryAddress1   string
	DeliveryAddress2   string
	DeliveryCity       string
	DeliveryState      string
	DeliveryPostalCode string
	DeliveryCountry    string
}

// CheckoutService converts a cart into a persisted order.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*domain.Order, error)
}

type checkoutService struct {
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository) CheckoutService {
	return &checkoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
	}
}

// Checkout snapshots the cart into an order, decrements stock and clears the
// cart, all inside one database transaction. Unit prices are captured from
// the cart read and never re-read, so a concurrent price change cannot split
// the order between old and new prices.
//
// Card payments capture immediately and start as paid; cash on delivery
// starts as pending.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*domain.Order, error) {
	if input.PaymentMethod != domain.PaymentMethodCOD && input.PaymentMethod != domain.PaymentMethodCard {
		return nil, ErrInvalidPaymentMethod
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	lines, err := s.cartRepo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	// Early stock check for a friendly per-product message; the transaction
	// re-validates atomically with the decrement.
	var total int64
	for _, line := range lines {
		if line.Quantity > line.Stock {
			return nil, &repository.InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.Name,
			}
		}
		total += line.LineTotalCents()
	}

	status := domain.OrderStatusPending
	if input.PaymentMethod == domain.PaymentMethodCard {
		status = domain.OrderStatusPaid
	}

	order := &domain.Order{
		ID:                 uuid.New(),
		UserID:             userID,
		TotalCents:         total,
		PaymentMethod:      input.PaymentMethod,
		Status:             status,
		DeliveryName:       input.DeliveryName,
		DeliveryPhone:      input.DeliveryPhone,
		DeliveryAddress1:   input.DeliveryAddress1,
		DeliveryAddress2:   input.DeliveryAddress2,
		DeliveryCity:       input.DeliveryCity,
		DeliveryState:      input.DeliveryState,
		DeliveryPostalCode: input.DeliveryPostalCode,
		DeliveryCountry:    input.DeliveryCountry,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, lines, cart.ID); err != nil {
		return nil, err
	}

	return order, nil
}
