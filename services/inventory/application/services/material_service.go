package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
	"github.com/ghuser/possystem/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/possystem/services/inventory/domain/services"
)

const defaultMovementLimit = 50

// ProductUsage reports which active products consume a material.
type ProductUsage interface {
	ActiveProductsUsing(ctx context.Context, materialID uuid.UUID) ([]invdomain.DependentProduct, error)
}

// CreateMaterialInput carries the fields of a new raw material.
type CreateMaterialInput struct {
	Name        string
	Unit        string
	StockQty    decimal.Decimal
	MinAlertQty decimal.Decimal
}

// UpdateMaterialInput is a partial update; nil fields keep their value.
// StockQty is an absolute value.
type UpdateMaterialInput struct {
	Name        *string
	Unit        *string
	StockQty    *decimal.Decimal
	MinAlertQty *decimal.Decimal
}

// UpdateResult carries the updated material and, when the update zeroed
// stock still needed by active products, those products.
type UpdateResult struct {
	Material         *models.RawMaterial
	AffectedProducts []invdomain.DependentProduct
	ZeroStockWarning bool
}

// MaterialService manages raw materials and operator stock changes.
type MaterialService struct {
	repo  repositories.RawMaterialRepository
	usage ProductUsage
}

func NewMaterialService(repo repositories.RawMaterialRepository, usage ProductUsage) *MaterialService {
	return &MaterialService{repo: repo, usage: usage}
}

func (s *MaterialService) Create(ctx context.Context, in CreateMaterialInput) (*models.RawMaterial, error) {
	unit, err := models.ParseUnit(in.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidMaterial, err)
	}
	m, err := models.NewRawMaterial(in.Name, unit, in.StockQty, in.MinAlertQty)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidMaterial, err)
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save raw material: %w", err)
	}
	return m, nil
}

func (s *MaterialService) List(ctx context.Context) ([]*models.RawMaterial, error) {
	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	return ms, nil
}

func (s *MaterialService) LowStock(ctx context.Context) ([]*models.RawMaterial, error) {
	ms, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return ms, nil
}

func (s *MaterialService) Get(ctx context.Context, id uuid.UUID) (*models.RawMaterial, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return m, nil
}

// Update applies a partial update. Attributes and stock are written
// separately: stock is only touched when StockQty is given, and then as an
// absolute value under a row lock. When that drops a stocked material to
// zero while active products use it, the result lists those products so the
// operator can be warned.
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, in UpdateMaterialInput) (*UpdateResult, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get raw material: %w", err)
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Unit != nil {
		unit, err := models.ParseUnit(*in.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidMaterial, err)
		}
		m.Unit = unit
	}
	if in.StockQty != nil {
		m.StockQty = *in.StockQty
	}
	if in.MinAlertQty != nil {
		m.MinAlertQty = *in.MinAlertQty
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidMaterial, err)
	}
	m.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update raw material: %w", err)
	}
	result := &UpdateResult{Material: m}
	if in.StockQty == nil {
		return result, nil
	}

	previous, err := s.repo.SetStock(ctx, id, *in.StockQty, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}
	m.StockQty = *in.StockQty
	if m.StockQty.IsZero() && !previous.IsZero() {
		dependents, err := s.usage.ActiveProductsUsing(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find dependent products: %w", err)
		}
		before := *m
		before.StockQty = previous
		if domainsvcs.ZeroingWarning(&before, m.StockQty, len(dependents)) {
			result.ZeroStockWarning = true
			result.AffectedProducts = dependents
		}
	}
	return result, nil
}

// AdjustStock applies a relative delta. Decreases go through the conditional
// decrement and are rejected with ErrInsufficientStock when they would drive
// stock below zero.
func (s *MaterialService) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.RawMaterial, error) {
	reference := uuid.NewString()
	switch {
	case delta.IsNegative():
		if _, err := s.repo.ConditionalDecrement(ctx, id, delta.Neg(), models.ReasonAdjustment, reference); err != nil {
			return nil, fmt.Errorf("decrease stock: %w", err)
		}
	case delta.IsPositive():
		m, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get raw material: %w", err)
		}
		if next, _ := domainsvcs.ApplyDelta(m.StockQty, delta); next.GreaterThan(models.MaxStockQty) {
			return nil, fmt.Errorf("%w: stock would exceed %s", invdomain.ErrInvalidMaterial, models.MaxStockQty)
		}
		if _, err := s.repo.Increment(ctx, id, delta, models.ReasonAdjustment, reference); err != nil {
			return nil, fmt.Errorf("increase stock: %w", err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a material unless an active product's recipe still uses it.
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get raw material: %w", err)
	}
	dependents, err := s.usage.ActiveProductsUsing(ctx, id)
	if err != nil {
		return fmt.Errorf("find dependent products: %w", err)
	}
	if len(dependents) > 0 {
		return &invdomain.MaterialInUseError{MaterialID: id, Products: dependents}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete raw material: %w", err)
	}
	return nil
}

// Movements returns the latest stock movements of a material, newest first.
func (s *MaterialService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]*models.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultMovementLimit
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, invdomain.ErrMaterialNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	mv, err := s.repo.Movements(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return mv, nil
}
