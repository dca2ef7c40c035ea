package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/warungku/backend-go/internal/domain"
	"github.com/warungku/backend-go/internal/repository"
)

const (
	// movingAverageDays is the width of the trailing window used both for the
	// forecast baseline and for the recent-vs-earliest trend comparison.
	movingAverageDays = 7

	defaultHorizonDays = 7
)

// Business-wide trend thresholds and projection factors.
const (
	overallIncreasingRatio  = 1.1
	overallDecreasingRatio  = 0.9
	overallIncreasingFactor = 1.05
	overallDecreasingFactor = 0.95
)

// Per-product series are noisier, so the thresholds are wider and the
// projection factors stronger.
const (
	productIncreasingRatio  = 1.2
	productDecreasingRatio  = 0.8
	productIncreasingFactor = 1.1
	productDecreasingFactor = 0.9
)

// OverallForecast projects business-wide revenue and transaction volume for
// the next daysAhead days from the trailing 60-day series. With no history it
// returns an insufficient_data forecast with zero points, never an error.
func (e *Engine) OverallForecast(ctx context.Context, daysAhead int) (*domain.SalesForecast, error) {
	if daysAhead <= 0 {
		daysAhead = defaultHorizonDays
	}

	series, err := e.history.DailySeries(ctx, forecastLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading daily series: %w", err)
	}

	if len(series) == 0 {
		return &domain.SalesForecast{
			Trend:  domain.TrendInsufficientData,
			Points: []domain.ForecastPoint{},
		}, nil
	}

	revenues := make([]float64, len(series))
	transactions := make([]float64, len(series))
	for i, point := range series {
		revenues[i] = coerceFloat(point.Revenue, 0)
		transactions[i] = float64(point.TransactionCount)
	}

	trend, factor := classifyTrend(revenues, overallIncreasingRatio, overallDecreasingRatio,
		overallIncreasingFactor, overallDecreasingFactor)

	baseRevenue := tailMean(revenues, movingAverageDays)
	baseTransactions := tailMean(transactions, movingAverageDays)
	confidence := clamp(float64(len(series))/30, 0.4, 0.8)

	noise := e.noise()
	today := e.today()

	points := make([]domain.ForecastPoint, 0, daysAhead)
	var totalRevenue float64
	for day := 1; day <= daysAhead; day++ {
		n := noise.Factor()

		revenue := roundTo(baseRevenue*factor*n, 2)
		txCount := int(math.Round(baseTransactions * factor * n))
		if txCount < 1 {
			txCount = 1
		}

		totalRevenue += revenue
		points = append(points, domain.ForecastPoint{
			Date:                  today.AddDate(0, 0, day),
			PredictedRevenue:      revenue,
			PredictedTransactions: txCount,
			Confidence:            confidence,
		})
	}

	return &domain.SalesForecast{
		Trend:                 trend,
		Points:                points,
		TotalPredictedRevenue: roundTo(totalRevenue, 2),
		Confidence:            confidence,
		DataPoints:            len(series),
	}, nil
}

// ProductForecast is the per-product variant of OverallForecast: quantity
// instead of revenue, wider trend thresholds, and a lower confidence band.
// An unknown product surfaces repository.ErrProductNotFound; a known product
// with no sales yields a no_data forecast.
func (e *Engine) ProductForecast(ctx context.Context, productID int64, daysAhead int) (*domain.SalesForecast, error) {
	if daysAhead <= 0 {
		daysAhead = defaultHorizonDays
	}

	product, err := e.history.ProductSnapshot(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reading product %d: %w", productID, err)
	}

	series, err := e.history.ProductDailySeries(ctx, productID, forecastLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading daily series for product %d: %w", productID, err)
	}

	if len(series) == 0 {
		return &domain.SalesForecast{
			ProductID:   productID,
			ProductName: product.Name,
			Trend:       domain.TrendNoData,
			Points:      []domain.ForecastPoint{},
		}, nil
	}

	quantities := make([]float64, len(series))
	for i, point := range series {
		quantities[i] = coerceFloat(point.Quantity, 0)
	}

	trend, factor := classifyTrend(quantities, productIncreasingRatio, productDecreasingRatio,
		productIncreasingFactor, productDecreasingFactor)

	baseQuantity := tailMean(quantities, movingAverageDays)
	confidence := clamp(float64(len(series))/20, 0.3, 0.7)

	noise := e.noise()
	today := e.today()

	points := make([]domain.ForecastPoint, 0, daysAhead)
	for day := 1; day <= daysAhead; day++ {
		points = append(points, domain.ForecastPoint{
			Date:              today.AddDate(0, 0, day),
			PredictedQuantity: roundTo(baseQuantity*factor*noise.Factor(), 2),
			Confidence:        confidence,
		})
	}

	return &domain.SalesForecast{
		ProductID:   productID,
		ProductName: product.Name,
		Trend:       trend,
		Points:      points,
		Confidence:  confidence,
		DataPoints:  len(series),
	}, nil
}

// classifyTrend compares the mean of the most recent movingAverageDays values
// against the mean of the earliest ones in the window and maps the ratio to a
// trend label plus its projection factor.
func classifyTrend(values []float64, upRatio, downRatio, upFactor, downFactor float64) (string, float64) {
	recent := tailMean(values, movingAverageDays)
	earliest := headMean(values, movingAverageDays)

	if earliest == 0 {
		if recent > 0 {
			return domain.TrendIncreasing, upFactor
		}
		return domain.TrendStable, 1.0
	}

	ratio := recent / earliest
	switch {
	case ratio > upRatio:
		return domain.TrendIncreasing, upFactor
	case ratio < downRatio:
		return domain.TrendDecreasing, downFactor
	default:
		return domain.TrendStable, 1.0
	}
}

func tailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}

	var sum float64
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

func headMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}

	var sum float64
	for _, v := range values[:n] {
		sum += v
	}
	return sum / float64(n)
}
