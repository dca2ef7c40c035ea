package prediction

import (
	"time"

	"github.com/warungku/backend-go/internal/domain"
)

const (
	// baselineConsumption is the assumed draw for products with no sale
	// history in the window: slow, but never zero.
	baselineConsumption = 0.1

	// Recency decay: products that have gone quiet sell slower than their
	// historical per-sale-day average suggests.
	staleAfterDays = 14
	staleDecay     = 0.5
	slowAfterDays  = 7
	slowDecay      = 0.7
)

// dailyConsumption estimates how many units of a product move per day, based
// on its per-sale-day average over the lookback window, decayed when the last
// sale is more than a week or two in the past.
func (e *Engine) dailyConsumption(agg domain.SalesAggregate) float64 {
	qtySold := coerceFloat(agg.TotalQuantitySold, 0)

	rate := baselineConsumption
	if agg.DistinctSaleDays > 0 && qtySold > 0 {
		rate = qtySold / float64(agg.DistinctSaleDays)
	}

	if agg.LastSaleDate != nil {
		idleDays := e.today().Sub(truncateDay(*agg.LastSaleDate)).Hours() / 24
		switch {
		case idleDays > staleAfterDays:
			rate *= staleDecay
		case idleDays > slowAfterDays:
			rate *= slowDecay
		}
	}

	return rate
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
