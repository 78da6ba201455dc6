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
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// AdminService defines the interface for admin console operations.
type AdminService interface {
	DashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type adminService struct {
	statsRepo repository.StatsRepository
	orderRepo repository.OrderRepository
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(statsRepo repository.StatsRepository, orderRepo repository.OrderRepository) AdminService {
	return &adminService{
		statsRepo: statsRepo,
		orderRepo: orderRepo,
	}
}

// DashboardStats recomputes the dashboard summary. Nothing is cached.
func (s *adminService) DashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.statsRepo.Dashboard(ctx)
}

// ListOrders returns every order, newest first.
func (s *adminService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// GetOrder returns any order with its lines, regardless of owner.
func (s *adminService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order items: %w", err)
	}

	return order, lines, nil
}

// UpdateOrderStatus sets an order's status. No transition graph is enforced;
// any of the five statuses may follow any other.
func (s *adminService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
