package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/database"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
	"github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres/db"
)

// ReconciliationRepository implements repositories.ReconciliationRepository.
type ReconciliationRepository struct {
	db *database.Database
}

func NewReconciliationRepository(database *database.Database) *ReconciliationRepository {
	return &ReconciliationRepository{db: database}
}

// Save journals all entries in one transaction.
func (r *ReconciliationRepository) Save(ctx context.Context, entries []*models.Reconciliation) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		for _, e := range entries {
			if err := q.InsertReconciliation(ctx, db.InsertReconciliationParams{
				ID:         e.ID,
				AttemptID:  e.AttemptID,
				MaterialID: e.MaterialID,
				Amount:     e.Amount,
				Cause:      e.Cause,
				Status:     string(e.Status),
				CreatedAt:  e.CreatedAt,
			}); err != nil {
				return fmt.Errorf("insert reconciliation: %w", err)
			}
		}
		return nil
	})
}

func (r *ReconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reconciliation, error) {
	row, err := db.New(r.db.DB()).GetReconciliation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrReconciliationNotFound
		}
		return nil, fmt.Errorf("query reconciliation: %w", err)
	}
	return rowToReconciliation(row), nil
}

func (r *ReconciliationRepository) ListOpen(ctx context.Context) ([]*models.Reconciliation, error) {
	rows, err := db.New(r.db.DB()).ListOpenReconciliations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open reconciliations: %w", err)
	}
	return rowsToReconciliations(rows), nil
}

func (r *ReconciliationRepository) ListOpenByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*models.Reconciliation, error) {
	rows, err := db.New(r.db.DB()).ListOpenReconciliationsByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list reconciliations for attempt: %w", err)
	}
	return rowsToReconciliations(rows), nil
}

// MarkResolved is a no-op for entries that are already resolved.
func (r *ReconciliationRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	if _, err := db.New(r.db.DB()).ResolveReconciliation(ctx, id); err != nil {
		return fmt.Errorf("resolve reconciliation: %w", err)
	}
	return nil
}

func rowToReconciliation(row db.StockReconciliation) *models.Reconciliation {
	rec := &models.Reconciliation{
		ID:         row.ID,
		AttemptID:  row.AttemptID,
		MaterialID: row.MaterialID,
		Amount:     row.Amount,
		Cause:      row.Cause,
		Status:     models.ReconciliationStatus(row.Status),
		CreatedAt:  row.CreatedAt,
	}
	if row.ResolvedAt.Valid {
		t := row.ResolvedAt.Time
		rec.ResolvedAt = &t
	}
	return rec
}

func rowsToReconciliations(rows []db.StockReconciliation) []*models.Reconciliation {
	out := make([]*models.Reconciliation, len(rows))
	for i, row := range rows {
		out[i] = rowToReconciliation(row)
	}
	return out
}
