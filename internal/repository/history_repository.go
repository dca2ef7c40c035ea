// internal/repository/history_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/repository/postgres"
)

// ErrProductNotFound is returned when a product snapshot lookup misses.
var ErrProductNotFound = errors.New("product not found")

// HistoryReader is the narrow read-only view of sales history the prediction
// engine depends on. Aggregation happens in SQL; the engine only ever sees
// typed rows, never raw result maps.
type HistoryReader interface {
	ActiveProducts(ctx context.Context) ([]domain.ProductSnapshot, error)
	ProductSnapshot(ctx context.Context, productID int64) (*domain.ProductSnapshot, error)
	SalesAggregate(ctx context.Context, productID int64, windowDays int) (*domain.SalesAggregate, error)
	SalesAggregates(ctx context.Context, windowDays int) (map[int64]domain.SalesAggregate, error)
	DailySeries(ctx context.Context, windowDays int) ([]domain.DailyRevenuePoint, error)
	ProductDailySeries(ctx context.Context, productID int64, windowDays int) ([]domain.ProductDailyPoint, error)
}

type historyRepository struct {
	db *postgres.DB
}

func NewHistoryRepository(db *postgres.DB) HistoryReader {
	return &historyRepository{db: db}
}

func (r *historyRepository) ActiveProducts(ctx context.Context) ([]domain.ProductSnapshot, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT id, name, current_stock, min_stock_alert, purchase_price, sale_price, active
        FROM products
        WHERE active = true
        ORDER BY id
    `

	var products []domain.ProductSnapshot
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error getting active products: %w", err)
	}

	return products, nil
}

func (r *historyRepository) ProductSnapshot(ctx context.Context, productID int64) (*domain.ProductSnapshot, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT id, name, current_stock, min_stock_alert, purchase_price, sale_price, active
        FROM products
        WHERE id = $1
    `

	var product domain.ProductSnapshot
	if err := r.db.GetContext(ctx, &product, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product %d: %w", productID, err)
	}

	return &product, nil
}

func (r *historyRepository) SalesAggregate(ctx context.Context, productID int64, windowDays int) (*domain.SalesAggregate, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT
            si.product_id,
            COUNT(DISTINCT s.sale_date::date) AS distinct_sale_days,
            COALESCE(SUM(si.quantity), 0) AS total_quantity_sold,
            COALESCE(SUM((si.unit_price - si.unit_cost) * si.quantity), 0) AS total_profit,
            MAX(s.sale_date) AS last_sale_date
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE si.product_id = $1
          AND s.sale_date >= current_date - ($2 || ' days')::interval
        GROUP BY si.product_id
    `

	var agg domain.SalesAggregate
	if err := r.db.GetContext(ctx, &agg, query, productID, windowDays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No sales in the window: a zero aggregate, not an error.
			return &domain.SalesAggregate{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("error aggregating sales for product %d: %w", productID, err)
	}

	return &agg, nil
}

func (r *historyRepository) SalesAggregates(ctx context.Context, windowDays int) (map[int64]domain.SalesAggregate, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT
            si.product_id,
            COUNT(DISTINCT s.sale_date::date) AS distinct_sale_days,
            COALESCE(SUM(si.quantity), 0) AS total_quantity_sold,
            COALESCE(SUM((si.unit_price - si.unit_cost) * si.quantity), 0) AS total_profit,
            MAX(s.sale_date) AS last_sale_date
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE s.sale_date >= current_date - ($1 || ' days')::interval
        GROUP BY si.product_id
    `

	var rows []domain.SalesAggregate
	if err := r.db.SelectContext(ctx, &rows, query, windowDays); err != nil {
		return nil, fmt.Errorf("error aggregating sales: %w", err)
	}

	aggregates := make(map[int64]domain.SalesAggregate, len(rows))
	for _, row := range rows {
		aggregates[row.ProductID] = row
	}

	return aggregates, nil
}

func (r *historyRepository) DailySeries(ctx context.Context, windowDays int) ([]domain.DailyRevenuePoint, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT
            date_trunc('day', s.sale_date) AS date,
            COUNT(*) AS transaction_count,
            COALESCE(SUM(s.total_amount), 0) AS revenue,
            COALESCE(AVG(s.total_amount), 0) AS average_transaction_value
        FROM sales s
        WHERE s.sale_date >= current_date - ($1 || ' days')::interval
        GROUP BY date_trunc('day', s.sale_date)
        ORDER BY date
    `

	var points []domain.DailyRevenuePoint
	if err := r.db.SelectContext(ctx, &points, query, windowDays); err != nil {
		return nil, fmt.Errorf("error getting daily series: %w", err)
	}

	return points, nil
}

func (r *historyRepository) ProductDailySeries(ctx context.Context, productID int64, windowDays int) ([]domain.ProductDailyPoint, error) {
	release, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
        SELECT
            date_trunc('day', s.sale_date) AS date,
            COALESCE(SUM(si.quantity), 0) AS quantity,
            COALESCE(SUM(si.quantity * si.unit_price), 0) AS revenue
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE si.product_id = $1
          AND s.sale_date >= current_date - ($2 || ' days')::interval
        GROUP BY date_trunc('day', s.sale_date)
        ORDER BY date
    `

	var points []domain.ProductDailyPoint
	if err := r.db.SelectContext(ctx, &points, query, productID, windowDays); err != nil {
		return nil, fmt.Errorf("error getting daily series for product %d: %w", productID, err)
	}

	return points, nil
}
