package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/logger"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
	"github.com/ghuser/possystem/services/inventory/domain/repositories"
)

// Shortfall is stock an order attempt took and could not give back.
type Shortfall struct {
	MaterialID uuid.UUID
	Amount     decimal.Decimal
}

// RestoreStarter schedules the durable restore of an attempt. Implemented by
// the Temporal client; nil disables scheduling.
type RestoreStarter interface {
	Start(ctx context.Context, workflowID string, workflow any, args ...any) error
}

// ReconciliationService journals failed compensations and replays them.
type ReconciliationService struct {
	repo      repositories.ReconciliationRepository
	materials repositories.RawMaterialRepository
	starter   RestoreStarter
	workflow  any
	log       logger.Logger
}

// NewReconciliationService wires the journal. workflow is the function the
// starter launches with the attempt id as its only argument.
func NewReconciliationService(
	repo repositories.ReconciliationRepository,
	materials repositories.RawMaterialRepository,
	starter RestoreStarter,
	workflow any,
	log logger.Logger,
) *ReconciliationService {
	return &ReconciliationService{repo: repo, materials: materials, starter: starter, workflow: workflow, log: log}
}

// RestoreWorkflowID is the deduplication key of an attempt's restore workflow.
func RestoreWorkflowID(attemptID uuid.UUID) string {
	return "stock-restore-" + attemptID.String()
}

// Report journals the shortfalls of an attempt and schedules their restore.
// Every shortfall is logged at ERROR so it stays traceable even if the
// journal write itself fails.
func (s *ReconciliationService) Report(ctx context.Context, attemptID uuid.UUID, shortfalls []Shortfall, cause error) error {
	entries := make([]*models.Reconciliation, 0, len(shortfalls))
	for _, sf := range shortfalls {
		s.log.ErrorContext(ctx, "stock inconsistency: compensation failed",
			"attempt_id", attemptID,
			"material_id", sf.MaterialID,
			"amount", sf.Amount.String(),
			"error", cause,
		)
		entries = append(entries, models.NewReconciliation(attemptID, sf.MaterialID, sf.Amount, cause.Error()))
	}
	if len(entries) == 0 {
		return nil
	}

	if err := s.repo.Save(ctx, entries); err != nil {
		return fmt.Errorf("journal reconciliation: %w", err)
	}

	if s.starter != nil && s.workflow != nil {
		if err := s.starter.Start(ctx, RestoreWorkflowID(attemptID), s.workflow, attemptID.String()); err != nil {
			s.log.WarnContext(ctx, "restore workflow not started; entries stay open for manual replay",
				"attempt_id", attemptID, "error", err)
		}
	}
	return nil
}

// Apply replays one journal entry. The increment shares the compensation key
// of the original attempt, so an entry whose compensation did land after all
// is resolved without changing stock.
func (s *ReconciliationService) Apply(ctx context.Context, id uuid.UUID) (*models.Reconciliation, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reconciliation: %w", err)
	}
	if entry.Status == models.ReconciliationResolved {
		return entry, nil
	}
	if err := s.apply(ctx, entry); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ApplyAttempt replays every open entry of an attempt and returns how many
// were resolved.
func (s *ReconciliationService) ApplyAttempt(ctx context.Context, attemptID uuid.UUID) (int, error) {
	entries, err := s.repo.ListOpenByAttempt(ctx, attemptID)
	if err != nil {
		return 0, fmt.Errorf("list reconciliations: %w", err)
	}
	for i, e := range entries {
		if err := s.apply(ctx, e); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

func (s *ReconciliationService) ListOpen(ctx context.Context) ([]*models.Reconciliation, error) {
	entries, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reconciliations: %w", err)
	}
	return entries, nil
}

func (s *ReconciliationService) apply(ctx context.Context, e *models.Reconciliation) error {
	applied, err := s.materials.Increment(ctx, e.MaterialID, e.Amount, models.ReasonCompensation, e.AttemptID.String())
	switch {
	case errors.Is(err, invdomain.ErrMaterialNotFound):
		s.log.WarnContext(ctx, "reconciliation target deleted; resolving without restore",
			"reconciliation_id", e.ID, "material_id", e.MaterialID)
	case err != nil:
		return fmt.Errorf("restore stock: %w", err)
	default:
		s.log.InfoContext(ctx, "reconciliation applied",
			"reconciliation_id", e.ID, "material_id", e.MaterialID,
			"amount", e.Amount.String(), "applied", applied)
	}
	if err := s.repo.MarkResolved(ctx, e.ID); err != nil {
		return fmt.Errorf("resolve reconciliation: %w", err)
	}
	return nil
}
