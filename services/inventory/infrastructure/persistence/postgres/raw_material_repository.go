package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	domainevents "github.com/ghuser/possystem/services/inventory/domain/events"
	"github.com/ghuser/possystem/services/inventory/domain/models"
	"github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres/db"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// RawMaterialRepository implements repositories.RawMaterialRepository against PostgreSQL.
type RawMaterialRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewRawMaterialRepository returns a repository backed by the given pool. When
// bus is non-nil, operator stock changes publish a StockAdjustedEvent through
// the outbox in the same transaction.
func NewRawMaterialRepository(database *database.Database, bus *events.EventBus) *RawMaterialRepository {
	return &RawMaterialRepository{db: database, bus: bus}
}

// Save inserts a new material. Returns ErrMaterialAlreadyExists on a name clash.
func (r *RawMaterialRepository) Save(ctx context.Context, m *models.RawMaterial) error {
	q := db.New(r.db.DB())
	if err := q.InsertRawMaterial(ctx, db.InsertRawMaterialParams{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit.String(),
		StockQty:    m.StockQty,
		MinAlertQty: m.MinAlertQty,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}); err != nil {
		if isUniqueViolation(err) {
			return invdomain.ErrMaterialAlreadyExists
		}
		return fmt.Errorf("insert raw material: %w", err)
	}
	return nil
}

func (r *RawMaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RawMaterial, error) {
	row, err := db.New(r.db.DB()).GetRawMaterial(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("query raw material: %w", err)
	}
	return rowToMaterial(row), nil
}

// GetByIDs resolves every existing id in one query.
func (r *RawMaterialRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.RawMaterial, error) {
	out := make(map[uuid.UUID]*models.RawMaterial, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.New(r.db.DB()).ListRawMaterialsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("query raw materials by ids: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = rowToMaterial(row)
	}
	return out, nil
}

func (r *RawMaterialRepository) List(ctx context.Context) ([]*models.RawMaterial, error) {
	rows, err := db.New(r.db.DB()).ListRawMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	return rowsToMaterials(rows), nil
}

func (r *RawMaterialRepository) LowStock(ctx context.Context) ([]*models.RawMaterial, error) {
	rows, err := db.New(r.db.DB()).ListLowStockMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock materials: %w", err)
	}
	return rowsToMaterials(rows), nil
}

// Update writes the attributes of m. stock_qty is not part of the statement,
// so a concurrent decrement is never overwritten; m.StockQty is refreshed
// from the row.
func (r *RawMaterialRepository) Update(ctx context.Context, m *models.RawMaterial) error {
	stock, err := db.New(r.db.DB()).UpdateRawMaterialAttributes(ctx, db.UpdateRawMaterialAttributesParams{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit.String(),
		MinAlertQty: m.MinAlertQty,
		UpdatedAt:   m.UpdatedAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invdomain.ErrMaterialNotFound
		}
		if isUniqueViolation(err) {
			return invdomain.ErrMaterialAlreadyExists
		}
		return fmt.Errorf("update raw material: %w", err)
	}
	m.StockQty = stock
	return nil
}

// SetStock locks the row, writes the absolute value and journals the
// difference as a "set" movement.
func (r *RawMaterialRepository) SetStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal, reference string) (decimal.Decimal, error) {
	var previous decimal.Decimal
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		current, err := q.GetRawMaterialForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invdomain.ErrMaterialNotFound
			}
			return fmt.Errorf("lock raw material: %w", err)
		}
		previous = current.StockQty

		delta := qty.Sub(current.StockQty)
		if delta.IsZero() {
			return nil
		}
		now := time.Now().UTC()
		if err := q.SetRawMaterialStock(ctx, db.SetRawMaterialStockParams{
			ID:        id,
			StockQty:  qty,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("set stock: %w", err)
		}
		if _, err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
			ID:         uuid.New(),
			MaterialID: id,
			Delta:      delta,
			Reason:     string(models.ReasonSet),
			Reference:  reference,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("insert stock movement: %w", err)
		}
		m := rowToMaterial(current)
		m.StockQty = qty
		return r.publishAdjusted(ctx, tx, m, delta)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return previous, nil
}

func (r *RawMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.DB()).DeleteRawMaterial(ctx, id)
	if err != nil {
		return fmt.Errorf("delete raw material: %w", err)
	}
	if n == 0 {
		return invdomain.ErrMaterialNotFound
	}
	return nil
}

// ConditionalDecrement journals the movement first so a replayed
// (reference, reason) pair is detected before stock is touched, then runs a
// single guarded UPDATE that only matches while stock_qty >= amount. An
// order decrement first takes the row lock so it is ordered against a
// compensation of the same reference.
func (r *RawMaterialRepository) ConditionalDecrement(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (decimal.Decimal, error) {
	var remaining decimal.Decimal
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if reason == models.ReasonOrder {
			released, err := lockAndCheck(ctx, q, id, reference, models.ReasonCompensation)
			if err != nil {
				return err
			}
			if released {
				return invdomain.ErrReservationReleased
			}
		}
		now := time.Now().UTC()
		inserted, err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
			ID:         uuid.New(),
			MaterialID: id,
			Delta:      amount.Neg(),
			Reason:     string(reason),
			Reference:  reference,
			CreatedAt:  now,
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return invdomain.ErrMaterialNotFound
			}
			return fmt.Errorf("insert stock movement: %w", err)
		}
		if inserted == 0 {
			row, err := q.GetRawMaterial(ctx, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return invdomain.ErrMaterialNotFound
				}
				return fmt.Errorf("query raw material: %w", err)
			}
			remaining = row.StockQty
			return nil
		}

		remaining, err = q.DecrementStock(ctx, db.DecrementStockParams{Amount: amount, ID: id})
		if err == nil {
			return r.publishIfManual(ctx, tx, q, id, amount.Neg(), remaining, reason)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("decrement stock: %w", err)
		}
		row, err := q.GetRawMaterial(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invdomain.ErrMaterialNotFound
			}
			return fmt.Errorf("query raw material: %w", err)
		}
		return &invdomain.InsufficientStockError{
			MaterialID: id,
			Name:       row.Name,
			Required:   amount,
			Available:  row.StockQty,
		}
	})
	if err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

// Increment adds amount once per (reference, reason). A compensation with
// no order movement behind it journals a zero delta instead, which also
// makes a late order decrement of the same reference fail.
func (r *RawMaterialRepository) Increment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (bool, error) {
	applied := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		delta := amount
		if reason == models.ReasonCompensation {
			reserved, err := lockAndCheck(ctx, q, id, reference, models.ReasonOrder)
			if err != nil {
				return err
			}
			if !reserved {
				delta = decimal.Zero
			}
		}
		inserted, err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
			ID:         uuid.New(),
			MaterialID: id,
			Delta:      delta,
			Reason:     string(reason),
			Reference:  reference,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return invdomain.ErrMaterialNotFound
			}
			return fmt.Errorf("insert stock movement: %w", err)
		}
		if inserted == 0 || delta.IsZero() {
			return nil
		}
		stock, err := q.IncrementStock(ctx, db.IncrementStockParams{Amount: amount, ID: id})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invdomain.ErrMaterialNotFound
			}
			return fmt.Errorf("increment stock: %w", err)
		}
		applied = true
		return r.publishIfManual(ctx, tx, q, id, amount, stock, reason)
	})
	return applied, err
}

func (r *RawMaterialRepository) Movements(ctx context.Context, id uuid.UUID, limit int) ([]*models.StockMovement, error) {
	rows, err := db.New(r.db.DB()).ListStockMovements(ctx, db.ListStockMovementsParams{
		MaterialID: id,
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	out := make([]*models.StockMovement, len(rows))
	for i, row := range rows {
		out[i] = &models.StockMovement{
			ID:         row.ID,
			MaterialID: row.MaterialID,
			Delta:      row.Delta,
			Reason:     models.MovementReason(row.Reason),
			Reference:  row.Reference,
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}

// publishIfManual emits stock_adjusted for operator adjustments only; order
// and compensation movements are covered by order events.
func (r *RawMaterialRepository) publishIfManual(ctx context.Context, tx *sql.Tx, q *db.Queries, id uuid.UUID, delta, stock decimal.Decimal, reason models.MovementReason) error {
	if reason != models.ReasonAdjustment || r.bus == nil {
		return nil
	}
	row, err := q.GetRawMaterial(ctx, id)
	if err != nil {
		return fmt.Errorf("query raw material: %w", err)
	}
	m := rowToMaterial(row)
	m.StockQty = stock
	return r.publishAdjusted(ctx, tx, m, delta)
}

func (r *RawMaterialRepository) publishAdjusted(ctx context.Context, tx *sql.Tx, m *models.RawMaterial, delta decimal.Decimal) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.StockAdjustedEvent{
		EventID:    uuid.New(),
		Version:    1,
		MaterialID: m.ID,
		Name:       m.Name,
		Delta:      delta,
		StockQty:   m.StockQty,
		LowStock:   m.IsLowStock(),
		OccurredAt: time.Now().UTC(),
	}
	msg, err := events.NewJSONMessage(event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	if err := r.bus.PublishInTx(ctx, tx, domainevents.TopicStockAdjusted, msg); err != nil {
		return fmt.Errorf("publish stock adjusted: %w", err)
	}
	return nil
}

// lockAndCheck takes the row lock of a material and reports whether a
// movement with reference and reason was journaled for it.
func lockAndCheck(ctx context.Context, q *db.Queries, id uuid.UUID, reference string, reason models.MovementReason) (bool, error) {
	if _, err := q.GetRawMaterialForUpdate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, invdomain.ErrMaterialNotFound
		}
		return false, fmt.Errorf("lock raw material: %w", err)
	}
	exists, err := q.StockMovementExists(ctx, db.StockMovementExistsParams{
		Reference:  reference,
		MaterialID: id,
		Reason:     string(reason),
	})
	if err != nil {
		return false, fmt.Errorf("query stock movement: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

func rowToMaterial(row db.RawMaterial) *models.RawMaterial {
	return &models.RawMaterial{
		ID:          row.ID,
		Name:        row.Name,
		Unit:        models.Unit(row.Unit),
		StockQty:    row.StockQty,
		MinAlertQty: row.MinAlertQty,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func rowsToMaterials(rows []db.RawMaterial) []*models.RawMaterial {
	out := make([]*models.RawMaterial, len(rows))
	for i, row := range rows {
		out[i] = rowToMaterial(row)
	}
	return out
}
