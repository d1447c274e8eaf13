package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/services/dashboard/domain/models"
	"github.com/ghuser/possystem/services/dashboard/infrastructure/persistence/postgres/db"
)

// StatsReader implements repositories.StatsReader over the orders,
// inventory, catalog and identity tables.
type StatsReader struct {
	db *database.Database
}

func NewStatsReader(database *database.Database) *StatsReader {
	return &StatsReader{db: database}
}

func (r *StatsReader) q() *db.Queries { return db.New(r.db.DB()) }

func (r *StatsReader) Summary(ctx context.Context) (decimal.Decimal, int64, error) {
	row, err := r.q().SalesSummary(ctx)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sales summary: %w", err)
	}
	return row.TotalSales, row.TotalOrders, nil
}

func (r *StatsReader) LowStockCount(ctx context.Context) (int64, error) {
	n, err := r.q().CountLowStockMaterials(ctx)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func (r *StatsReader) LowStockMaterials(ctx context.Context, limit int) ([]models.LowStockMaterial, error) {
	rows, err := r.q().ListLowStockMaterials(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	out := make([]models.LowStockMaterial, len(rows))
	for i, row := range rows {
		out[i] = models.LowStockMaterial{
			ID:          row.ID,
			Name:        row.Name,
			Unit:        row.Unit,
			StockQty:    row.StockQty,
			MinAlertQty: row.MinAlertQty,
		}
	}
	return out, nil
}

func (r *StatsReader) TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	rows, err := r.q().TopProducts(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	out := make([]models.TopProduct, len(rows))
	for i, row := range rows {
		out[i] = models.TopProduct{ProductID: row.ProductID, Name: row.Name, ImageURL: row.ImageUrl, TotalQty: row.TotalQty}
	}
	return out, nil
}

func (r *StatsReader) DailySales(ctx context.Context, since time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.q().DailySales(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Day] = row.Sales
	}
	return out, nil
}

func (r *StatsReader) OrderTypeCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.q().OrderTypeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("order type counts: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Orders
	}
	return out, nil
}

func (r *StatsReader) RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error) {
	rows, err := r.q().RecentOrders(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	out := make([]models.RecentOrder, len(rows))
	for i, row := range rows {
		out[i] = models.RecentOrder{
			ID:              row.ID,
			TotalAmount:     row.TotalAmount,
			Type:            row.Type,
			Status:          row.Status,
			PaymentMethod:   row.PaymentMethod,
			ProcessedByName: row.ProcessedByName,
			CreatedAt:       row.CreatedAt,
		}
	}
	return out, nil
}
