package service

import (
	"context"
	"fmt"

	"shoekart/internal/domain"
	"shoekart/internal/repository"

	"github.com/google/uuid"
)

// OrderService exposes a shopper's view of their own orders.
type OrderService interface {
	ListOwn(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// ListOwn returns the user's orders, newest first.
func (s *orderService) ListOwn(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GetOwn returns one of the user's orders with its lines. An order belonging
// to someone else comes back as ErrOrderNotFound so ownership leaks nothing.
func (s *orderService) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order items: %w", err)
	}

	return order, lines, nil
}
