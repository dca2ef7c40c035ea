package prediction

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/warungku/backend-go/internal/domain"
)

// Alert tier boundaries in days of remaining cover.
const (
	criticalWithinDays = 3
	warningWithinDays  = 7
	infoWithinDays     = 14
)

// StockAlerts scans all active products with stock on hand and returns those
// projected to run out within the info tier or sooner, most urgent first.
// Products whose inputs cannot be computed are skipped, never fatal.
func (e *Engine) StockAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	products, err := e.history.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading active products: %w", err)
	}

	aggregates, err := e.history.SalesAggregates(ctx, stockLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading sales aggregates: %w", err)
	}

	alerts := make([]domain.StockAlert, 0, len(products))
	for _, product := range products {
		if product.CurrentStock <= 0 {
			continue
		}

		alert, ok := e.stockAlert(product, aggregates[product.ID])
		if !ok {
			continue
		}
		alerts = append(alerts, alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].DaysUntilStockout < alerts[j].DaysUntilStockout
	})

	return alerts, nil
}

// stockAlert evaluates one product. The second return value is false when the
// product needs no alert (more than two weeks of cover) or when its numbers
// are not computable.
func (e *Engine) stockAlert(product domain.ProductSnapshot, agg domain.SalesAggregate) (domain.StockAlert, bool) {
	rate := e.dailyConsumption(agg)

	daysLeft := math.Inf(1)
	if rate > 0 {
		daysLeft = float64(product.CurrentStock) / rate
	}

	level := alertLevel(daysLeft)
	if level == "" {
		return domain.StockAlert{}, false
	}

	if math.IsNaN(daysLeft) {
		log.Warn().Int64("product_id", product.ID).Msg("stock alert skipped: non-computable stockout estimate")
		return domain.StockAlert{}, false
	}

	confidence := math.Min(0.9, 0.3+float64(agg.DistinctSaleDays)/30*0.6)

	return domain.StockAlert{
		ProductID:         product.ID,
		ProductName:       product.Name,
		CurrentStock:      product.CurrentStock,
		DailyConsumption:  roundTo(rate, 2),
		DaysUntilStockout: daysLeft,
		AlertLevel:        level,
		Confidence:        confidence,
		Recommendation:    recommendationText(level, daysLeft),
	}, true
}

// alertLevel is a pure step function of days-until-stockout. An empty string
// means no alert is warranted.
func alertLevel(daysLeft float64) string {
	switch {
	case daysLeft <= criticalWithinDays:
		return domain.AlertCritical
	case daysLeft <= warningWithinDays:
		return domain.AlertWarning
	case daysLeft <= infoWithinDays:
		return domain.AlertInfo
	default:
		return ""
	}
}

func recommendationText(level string, daysLeft float64) string {
	switch level {
	case domain.AlertCritical:
		return fmt.Sprintf("Urgent: stock runs out in about %.1f days. Restock immediately.", daysLeft)
	case domain.AlertWarning:
		return fmt.Sprintf("Stock is projected to last %.1f days. Plan a restock this week.", daysLeft)
	default:
		return fmt.Sprintf("Stock covers roughly %.1f days of sales. Keep an eye on it.", daysLeft)
	}
}
