package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/services/order/domain/models"
	"github.com/ghuser/possystem/services/order/domain/repositories"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OrderPage is one page of orders, newest first.
type OrderPage struct {
	Orders []*models.Order
	Total  int64
	Limit  int
	Offset int
}

// OrderService serves read access to committed orders.
type OrderService struct {
	repo repositories.OrderRepository
}

func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List clamps limit to [1, MaxPageSize] and offset to >= 0.
func (s *OrderService) List(ctx context.Context, limit, offset int) (*OrderPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)

	orders, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Total: total, Limit: limit, Offset: offset}, nil
}
