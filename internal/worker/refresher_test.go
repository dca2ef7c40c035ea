package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungku/backend-go/internal/cache"
	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/prediction"
	"github.com/warungku/backend-go/internal/repository"
	"github.com/warungku/backend-go/internal/service"
	"github.com/warungku/backend-go/internal/storage"
)

type stubHistory struct{}

func (s *stubHistory) ActiveProducts(ctx context.Context) ([]domain.ProductSnapshot, error) {
	return []domain.ProductSnapshot{
		{ID: 1, Name: "Kopi Sachet", CurrentStock: 5, MinStockAlert: 5, Active: true},
	}, nil
}

func (s *stubHistory) ProductSnapshot(ctx context.Context, productID int64) (*domain.ProductSnapshot, error) {
	return nil, repository.ErrProductNotFound
}

func (s *stubHistory) SalesAggregate(ctx context.Context, productID int64, windowDays int) (*domain.SalesAggregate, error) {
	return &domain.SalesAggregate{ProductID: productID}, nil
}

func (s *stubHistory) SalesAggregates(ctx context.Context, windowDays int) (map[int64]domain.SalesAggregate, error) {
	return map[int64]domain.SalesAggregate{
		1: {ProductID: 1, DistinctSaleDays: 10, TotalQuantitySold: 20, TotalProfit: 400},
	}, nil
}

func (s *stubHistory) DailySeries(ctx context.Context, windowDays int) ([]domain.DailyRevenuePoint, error) {
	return []domain.DailyRevenuePoint{
		{Date: time.Now().AddDate(0, 0, -1), TransactionCount: 10, Revenue: 250},
	}, nil
}

func (s *stubHistory) ProductDailySeries(ctx context.Context, productID int64, windowDays int) ([]domain.ProductDailyPoint, error) {
	return nil, nil
}

type capturingStorage struct {
	keys     []string
	payloads [][]byte
}

func (c *capturingStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (c *capturingStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (c *capturingStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	c.keys = append(c.keys, key)
	c.payloads = append(c.payloads, data)
	return nil
}

func newTestService() *service.PredictionService {
	engine := prediction.NewEngine(&stubHistory{})
	return service.NewPredictionService(engine, cache.NewNoopPredictionCache())
}

func TestRunOnceArchivesSnapshot(t *testing.T) {
	archive := &capturingStorage{}
	refresher := NewRefresher(newTestService(), archive, 7)

	require.NoError(t, refresher.RunOnce(context.Background()))
	require.Len(t, archive.keys, 1)
	assert.True(t, strings.HasPrefix(archive.keys[0], "predictions/"))
	assert.True(t, strings.HasSuffix(archive.keys[0], ".json"))

	var snapshot runSnapshot
	require.NoError(t, json.Unmarshal(archive.payloads[0], &snapshot))
	assert.NotEmpty(t, snapshot.StockAlerts)
	assert.NotEmpty(t, snapshot.RestockSuggestions)
	require.NotNil(t, snapshot.SalesForecast)
	assert.Len(t, snapshot.SalesForecast.Points, 7)
	require.NotNil(t, snapshot.WeeklyTrends)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}

func TestRunOnceWithoutArchive(t *testing.T) {
	refresher := NewRefresher(newTestService(), nil, 0)
	assert.NoError(t, refresher.RunOnce(context.Background()))
}
