package prediction

import (
	"context"
	"time"

	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/repository"
)

// fakeHistory is an in-memory HistoryReader for engine tests.
type fakeHistory struct {
	products     []domain.ProductSnapshot
	aggregates   map[int64]domain.SalesAggregate
	daily        []domain.DailyRevenuePoint
	productDaily map[int64][]domain.ProductDailyPoint
	err          error
}

func (f *fakeHistory) ActiveProducts(ctx context.Context) ([]domain.ProductSnapshot, error) {
	return f.products, f.err
}

func (f *fakeHistory) ProductSnapshot(ctx context.Context, productID int64) (*domain.ProductSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, product := range f.products {
		if product.ID == productID {
			p := product
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeHistory) SalesAggregate(ctx context.Context, productID int64, windowDays int) (*domain.SalesAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if agg, ok := f.aggregates[productID]; ok {
		return &agg, nil
	}
	return &domain.SalesAggregate{ProductID: productID}, nil
}

func (f *fakeHistory) SalesAggregates(ctx context.Context, windowDays int) (map[int64]domain.SalesAggregate, error) {
	return f.aggregates, f.err
}

func (f *fakeHistory) DailySeries(ctx context.Context, windowDays int) ([]domain.DailyRevenuePoint, error) {
	return f.daily, f.err
}

func (f *fakeHistory) ProductDailySeries(ctx context.Context, productID int64, windowDays int) ([]domain.ProductDailyPoint, error) {
	return f.productDaily[productID], f.err
}

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func testClock() time.Time { return testToday }

func daysAgo(n int) *time.Time {
	t := testToday.AddDate(0, 0, -n)
	return &t
}

func newTestEngine(history *fakeHistory, opts ...Option) *Engine {
	opts = append([]Option{WithClock(testClock), WithNoise(FixedNoise(1.0))}, opts...)
	return NewEngine(history, opts...)
}
