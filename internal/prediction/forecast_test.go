package prediction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/repository"
)

// dailySeries builds a consecutive series ending yesterday with the given
// revenues and ten transactions per day.
func dailySeries(revenues ...float64) []domain.DailyRevenuePoint {
	points := make([]domain.DailyRevenuePoint, len(revenues))
	for i, revenue := range revenues {
		points[i] = domain.DailyRevenuePoint{
			Date:             testToday.AddDate(0, 0, i-len(revenues)),
			TransactionCount: 10,
			Revenue:          revenue,
		}
	}
	return points
}

func flatThenStep(early, late float64) []domain.DailyRevenuePoint {
	revenues := make([]float64, 0, 14)
	for i := 0; i < 7; i++ {
		revenues = append(revenues, early)
	}
	for i := 0; i < 7; i++ {
		revenues = append(revenues, late)
	}
	return dailySeries(revenues...)
}

func TestOverallForecastEmptyHistory(t *testing.T) {
	engine := newTestEngine(&fakeHistory{})

	forecast, err := engine.OverallForecast(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendInsufficientData, forecast.Trend)
	assert.Empty(t, forecast.Points)
	assert.Zero(t, forecast.DataPoints)
}

func TestOverallForecastTrendClassification(t *testing.T) {
	tests := []struct {
		name      string
		series    []domain.DailyRevenuePoint
		wantTrend string
		wantDaily float64
	}{
		{
			// Recent mean 150 vs earliest mean 100 is a 1.5 ratio.
			name:      "growing revenue trends increasing",
			series:    flatThenStep(100, 150),
			wantTrend: domain.TrendIncreasing,
			wantDaily: 157.5, // 150 * 1.05
		},
		{
			name:      "shrinking revenue trends decreasing",
			series:    flatThenStep(150, 100),
			wantTrend: domain.TrendDecreasing,
			wantDaily: 95, // 100 * 0.95
		},
		{
			name:      "flat revenue trends stable",
			series:    flatThenStep(100, 105),
			wantTrend: domain.TrendStable,
			wantDaily: 105,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&fakeHistory{daily: tt.series})

			forecast, err := engine.OverallForecast(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrend, forecast.Trend)

			require.Len(t, forecast.Points, 7)
			for _, point := range forecast.Points {
				assert.InDelta(t, tt.wantDaily, point.PredictedRevenue, 0.01)
			}
		})
	}
}

func TestOverallForecastPointDatesAreConsecutive(t *testing.T) {
	engine := newTestEngine(&fakeHistory{daily: dailySeries(100, 100, 100)})

	forecast, err := engine.OverallForecast(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, forecast.Points, 5)

	for i, point := range forecast.Points {
		assert.Equal(t, testToday.AddDate(0, 0, i+1), point.Date)
	}
}

func TestOverallForecastTransactionsNeverBelowOne(t *testing.T) {
	series := dailySeries(1, 1, 1)
	for i := range series {
		series[i].TransactionCount = 0
	}
	engine := newTestEngine(&fakeHistory{daily: series})

	forecast, err := engine.OverallForecast(context.Background(), 3)
	require.NoError(t, err)
	for _, point := range forecast.Points {
		assert.GreaterOrEqual(t, point.PredictedTransactions, 1)
	}
}

func TestOverallForecastConfidenceBounds(t *testing.T) {
	confidenceFor := func(days int) float64 {
		revenues := make([]float64, days)
		for i := range revenues {
			revenues[i] = 100
		}
		engine := newTestEngine(&fakeHistory{daily: dailySeries(revenues...)})

		forecast, err := engine.OverallForecast(context.Background(), 7)
		require.NoError(t, err)
		return forecast.Confidence
	}

	assert.InDelta(t, 0.4, confidenceFor(5), 0.001, "thin history floors at 0.4")
	assert.InDelta(t, 0.8, confidenceFor(60), 0.001, "long history caps at 0.8")
}

func TestOverallForecastSeededNoiseIsDeterministic(t *testing.T) {
	history := &fakeHistory{daily: flatThenStep(100, 150)}

	first, err := newTestEngine(history, WithNoise(GaussianNoise(42))).OverallForecast(context.Background(), 7)
	require.NoError(t, err)
	second, err := newTestEngine(history, WithNoise(GaussianNoise(42))).OverallForecast(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProductForecastUnknownProduct(t *testing.T) {
	engine := newTestEngine(&fakeHistory{})

	_, err := engine.ProductForecast(context.Background(), 99, 7)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestProductForecastNoSalesHistory(t *testing.T) {
	history := &fakeHistory{
		products: []domain.ProductSnapshot{
			{ID: 7, Name: "Sabun Batang", CurrentStock: 10, Active: true},
		},
	}

	forecast, err := newTestEngine(history).ProductForecast(context.Background(), 7, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendNoData, forecast.Trend)
	assert.Equal(t, "Sabun Batang", forecast.ProductName)
	assert.Empty(t, forecast.Points)
}

func TestProductForecastQuantityProjection(t *testing.T) {
	// Quantities step from 10 to 15, a 1.5 ratio, past the wider 1.2 threshold.
	series := make([]domain.ProductDailyPoint, 0, 14)
	for i := 0; i < 14; i++ {
		quantity := 10.0
		if i >= 7 {
			quantity = 15
		}
		series = append(series, domain.ProductDailyPoint{
			Date:     testToday.AddDate(0, 0, i-14),
			Quantity: quantity,
		})
	}

	history := &fakeHistory{
		products: []domain.ProductSnapshot{
			{ID: 7, Name: "Sabun Batang", CurrentStock: 10, Active: true},
		},
		productDaily: map[int64][]domain.ProductDailyPoint{7: series},
	}

	forecast, err := newTestEngine(history).ProductForecast(context.Background(), 7, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendIncreasing, forecast.Trend)
	assert.InDelta(t, 0.7, forecast.Confidence, 0.001)

	require.Len(t, forecast.Points, 7)
	for _, point := range forecast.Points {
		assert.InDelta(t, 16.5, point.PredictedQuantity, 0.01) // 15 * 1.1
		assert.Zero(t, point.PredictedRevenue)
	}
}
