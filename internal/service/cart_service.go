package service

import (
	"context"
	"errors"
	"fmt"

	"shoekart/internal/domain"
	"shoekart/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// CartView is a cart as presented to the shopper.
type CartView struct {
	CartID        uuid.UUID         `json:"cart_id"`
	Lines         []domain.CartLine `json:"lines"`
	SubtotalCents int64             `json:"subtotal_cents"`
}

// CartService defines the interface for cart business logic
type CartService interface {
	View(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// View returns the cart's lines with the computed subtotal, creating the
// cart on first access.
func (s *cartService) View(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	lines, err := s.cartRepo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.LineTotalCents()
	}

	return &CartView{CartID: cart.ID, Lines: lines, SubtotalCents: subtotal}, nil
}

// AddItem puts quantity units of a product into the user's cart. The
// requested quantity is clamped to current stock; if the product is already
// in the cart the quantities are summed and re-clamped.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock == 0 {
		return ErrOutOfStock
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	if quantity > product.Stock {
		quantity = product.Stock
	}

	existing, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if merged > product.Stock {
			merged = product.Stock
		}
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
			return err
		}
	case err == repository.ErrCartItemNotFound:
		item := &domain.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: cart.UpdatedAt,
			UpdatedAt: cart.UpdatedAt,
		}
		if err := s.cartRepo.InsertItem(ctx, item); err != nil {
			return err
		}
	default:
		return err
	}

	return s.cartRepo.Touch(ctx, cart.ID)
}

// UpdateItem sets a cart line's quantity, clamped to current stock. The line
// must belong to the caller's cart.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	item, cart, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product.Stock == 0 {
		return ErrOutOfStock
	}

	if quantity > product.Stock {
		quantity = product.Stock
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return err
	}

	return s.cartRepo.Touch(ctx, cart.ID)
}

// RemoveItem deletes a cart line. Removing a line that no longer exists
// succeeds silently.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, cart, err := s.ownedItem(ctx, userID, itemID)
	if err == repository.ErrCartItemNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	return s.cartRepo.Touch(ctx, cart.ID)
}

// ownedItem resolves a cart line and verifies it belongs to the user's cart.
// A line in someone else's cart is indistinguishable from a missing one.
func (s *cartService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, *domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}

	item, err := s.cartRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item.CartID != cart.ID {
		return nil, nil, repository.ErrCartItemNotFound
	}

	return item, cart, nil
}
