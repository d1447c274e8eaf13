package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/possystem/pkg/logger"
	orderdomain "github.com/ghuser/possystem/services/order/domain"
	"github.com/ghuser/possystem/services/order/domain/events"
	"github.com/ghuser/possystem/services/order/domain/models"
	"github.com/ghuser/possystem/services/order/domain/repositories"
	domainsvcs "github.com/ghuser/possystem/services/order/domain/services"
)

const instrumentationName = "github.com/ghuser/possystem/services/order"

// ProductResolver loads catalog snapshots in one batch. Missing ids are
// absent from the result.
type ProductResolver interface {
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.ProductSnapshot, error)
}

// StockLedger is the inventory side of a placement. Reserve is an atomic
// conditional decrement that fails with InsufficientStockError when the
// stock no longer covers amount; Release undoes a Reserve and is a no-op
// when no Reserve of the attempt was applied. Both are idempotent per
// (material, attempt), and a released pair can no longer be reserved.
type StockLedger interface {
	Snapshot(ctx context.Context, materialIDs []uuid.UUID) (map[uuid.UUID]*models.MaterialSnapshot, error)
	Reserve(ctx context.Context, materialID uuid.UUID, amount decimal.Decimal, attemptID uuid.UUID) error
	Release(ctx context.Context, materialID uuid.UUID, amount decimal.Decimal, attemptID uuid.UUID) error
}

// Unrestored is reserved stock that compensation could not give back.
type Unrestored struct {
	MaterialID uuid.UUID
	Amount     decimal.Decimal
}

// Reconciler journals unrestored stock for a later replay.
type Reconciler interface {
	Report(ctx context.Context, attemptID uuid.UUID, unrestored []Unrestored, cause error) error
}

// PlacementService validates orders, reserves their stock and commits them.
// Every attempt either commits with all of its decrements applied or leaves
// stock as it found it; the only exception is a failed compensation, which
// is handed to the Reconciler.
type PlacementService struct {
	products   ProductResolver
	stock      StockLedger
	orders     repositories.OrderRepository
	reconciler Reconciler
	log        logger.Logger
	retries    int

	tracer  trace.Tracer
	metrics placementMetrics
}

// NewPlacementService wires the service. retries is how many times a
// placement that lost a reservation race is run again from product
// resolution.
func NewPlacementService(
	products ProductResolver,
	stock StockLedger,
	orders repositories.OrderRepository,
	reconciler Reconciler,
	log logger.Logger,
	retries int,
) *PlacementService {
	return &PlacementService{
		products:   products,
		stock:      stock,
		orders:     orders,
		reconciler: reconciler,
		log:        log,
		retries:    max(retries, 0),
		tracer:     otel.Tracer(instrumentationName),
		metrics:    newPlacementMetrics(otel.Meter(instrumentationName)),
	}
}

// PlaceOrder runs a placement. A reservation conflict is retried; once the
// retries are spent it is reported as InsufficientStockError, or as
// ConcurrencyConflictError when no retries are configured.
func (s *PlacementService) PlaceOrder(ctx context.Context, cmd models.PlaceOrderCommand) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.place")
	defer span.End()
	span.SetAttributes(attribute.Int("order.lines", len(cmd.Items)))

	typ, err := cmd.Validate()
	if err != nil {
		err = fmt.Errorf("%w: %w", orderdomain.ErrInvalidOrder, err)
		s.reject(ctx, span, err)
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		order, err := s.place(ctx, cmd, typ)
		if err == nil {
			s.metrics.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(order.Type))))
			span.SetAttributes(attribute.String("order.id", order.ID.String()))
			span.SetStatus(codes.Ok, "")
			s.log.InfoContext(ctx, "order placed",
				"order_id", order.ID,
				"total", order.TotalAmount.String(),
				"lines", len(order.Items),
				"attempts", attempt+1,
			)
			return order, nil
		}

		var conflict *orderdomain.ConcurrencyConflictError
		if !errors.As(err, &conflict) {
			s.reject(ctx, span, err)
			return nil, err
		}
		s.metrics.conflicts.Add(ctx, 1)
		if attempt < s.retries {
			s.log.WarnContext(ctx, "stock reservation conflict; retrying order",
				"material_id", conflict.MaterialID, "attempt", attempt+1)
			continue
		}
		if s.retries > 0 {
			err = conflict.AsShortage()
		}
		s.reject(ctx, span, err)
		return nil, err
	}
}

// place is one attempt. Its id doubles as the order id and as the stock
// movement reference of every reservation it makes.
func (s *PlacementService) place(ctx context.Context, cmd models.PlaceOrderCommand, typ models.OrderType) (*models.Order, error) {
	attemptID := uuid.New()

	products, err := s.products.ResolveProducts(ctx, distinctProductIDs(cmd.Items))
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	if err := domainsvcs.ResolveLines(cmd.Items, products); err != nil {
		return nil, err
	}

	required := domainsvcs.AggregateRequirements(cmd.Items, products)
	snapshot, err := s.stock.Snapshot(ctx, domainsvcs.SortedMaterialIDs(required))
	if err != nil {
		return nil, fmt.Errorf("read stock: %w", err)
	}
	reqs, err := domainsvcs.CheckStock(required, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.reserve(ctx, attemptID, reqs); err != nil {
		return nil, err
	}

	order := models.NewOrder(attemptID, cmd.OperatorID, typ, cmd.PaymentMethod, domainsvcs.BuildItems(cmd.Items, products))
	if err := s.orders.Save(ctx, order, placedEvent(order, reqs)); err != nil {
		s.log.ErrorContext(ctx, "order not persisted; releasing reserved stock",
			"attempt_id", attemptID, "error", err)
		return nil, &orderdomain.PersistenceFailureError{
			AttemptID:       attemptID,
			Cause:           err,
			CompensationErr: s.compensate(ctx, attemptID, reqs, err),
		}
	}
	return order, nil
}

// reserve decrements every requirement in ascending material order. On the
// first failure the decrements already applied are released, plus the failed
// one when the error does not say whether it was applied.
func (s *PlacementService) reserve(ctx context.Context, attemptID uuid.UUID, reqs []models.Requirement) error {
	ctx, span := s.tracer.Start(ctx, "order.reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("attempt.id", attemptID.String()),
		attribute.Int("materials", len(reqs)),
	)

	for i, r := range reqs {
		err := s.stock.Reserve(ctx, r.MaterialID, r.Required, attemptID)
		if err == nil {
			continue
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation failed")

		// An unclassified error may follow an applied decrement.
		release := reqs[:i+1]
		var short *orderdomain.InsufficientStockError
		if errors.As(err, &short) {
			release = reqs[:i]
			err = &orderdomain.ConcurrencyConflictError{
				MaterialID: r.MaterialID,
				Name:       r.Name,
				Required:   r.Required,
				Available:  short.Available,
			}
		} else if errors.Is(err, orderdomain.ErrMaterialNotFound) {
			release = reqs[:i]
		} else {
			err = fmt.Errorf("reserve %s: %w", r.Name, err)
		}
		if compErr := s.compensate(ctx, attemptID, release, err); compErr != nil {
			return errors.Join(err, compErr)
		}
		return err
	}
	return nil
}

// compensate releases reserved stock in reverse order. Releases that fail
// are reported to the reconciler and returned as one error.
func (s *PlacementService) compensate(ctx context.Context, attemptID uuid.UUID, reserved []models.Requirement, cause error) error {
	// The caller may already be gone; the stock still has to come back.
	ctx = context.WithoutCancel(ctx)

	var (
		failed []Unrestored
		errs   []error
	)
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := s.stock.Release(ctx, r.MaterialID, r.Required, attemptID); err != nil {
			failed = append(failed, Unrestored{MaterialID: r.MaterialID, Amount: r.Required})
			errs = append(errs, fmt.Errorf("release %s: %w", r.Name, err))
		}
	}
	if len(failed) == 0 {
		return nil
	}

	s.metrics.compensationFailures.Add(ctx, int64(len(failed)))
	compErr := errors.Join(errs...)
	s.log.ErrorContext(ctx, "compensation failed; stock pending reconciliation",
		"attempt_id", attemptID,
		"materials", len(failed),
		"cause", cause,
		"error", compErr,
	)
	if s.reconciler != nil {
		if err := s.reconciler.Report(ctx, attemptID, failed, errors.Join(cause, compErr)); err != nil {
			s.log.ErrorContext(ctx, "reconciliation journal failed",
				"attempt_id", attemptID, "error", err)
			compErr = errors.Join(compErr, err)
		}
	}
	return compErr
}

func (s *PlacementService) reject(ctx context.Context, span trace.Span, err error) {
	kind := RejectionKind(err)
	s.metrics.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	if kind == "persistence_failure" || kind == "internal" {
		s.log.ErrorContext(ctx, "order placement failed", "kind", kind, "error", err)
		return
	}
	s.log.InfoContext(ctx, "order rejected", "kind", kind, "error", err)
}

// RejectionKind classifies a placement error for metrics and responses.
func RejectionKind(err error) string {
	switch {
	case errors.Is(err, orderdomain.ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, orderdomain.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, orderdomain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, orderdomain.ErrProductNotFound), errors.Is(err, orderdomain.ErrMaterialNotFound):
		return "not_found"
	case errors.Is(err, orderdomain.ErrInvalidOrder), errors.Is(err, orderdomain.ErrProductInactive):
		return "invalid"
	default:
		return "internal"
	}
}

func distinctProductIDs(lines []models.PlaceOrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

func placedEvent(o *models.Order, reqs []models.Requirement) events.OrderPlacedEvent {
	consumed := make([]events.MaterialConsumed, len(reqs))
	for i, r := range reqs {
		consumed[i] = events.MaterialConsumed{MaterialID: r.MaterialID, Amount: r.Required}
	}
	return events.OrderPlacedEvent{
		EventID:     uuid.New(),
		Version:     1,
		OrderID:     o.ID,
		ProcessedBy: o.ProcessedBy,
		Type:        string(o.Type),
		TotalAmount: o.TotalAmount,
		Consumed:    consumed,
		OccurredAt:  time.Now().UTC(),
	}
}

type placementMetrics struct {
	placed               metric.Int64Counter
	rejected             metric.Int64Counter
	conflicts            metric.Int64Counter
	compensationFailures metric.Int64Counter
}

func newPlacementMetrics(meter metric.Meter) placementMetrics {
	return placementMetrics{
		placed:               counter(meter, "pos_orders_placed_total", "Orders committed"),
		rejected:             counter(meter, "pos_order_rejections_total", "Order placements rejected, by kind"),
		conflicts:            counter(meter, "pos_stock_conflicts_total", "Stock reservations that lost a race"),
		compensationFailures: counter(meter, "pos_compensation_failures_total", "Stock releases that failed during compensation"),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
