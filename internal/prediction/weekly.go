package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/warungku/backend-go/internal/domain"
)

// assumedWeeksInWindow is the fixed divisor used to average per-weekday sums
// over the 30-day window. The original reporting always divided by four
// regardless of how many of each weekday actually fell in the window; callers
// depend on those values, so the quirk is preserved.
const assumedWeeksInWindow = 4

// minWeekdaysForConfidence is how many distinct weekdays need data before the
// pattern is considered reasonably supported.
const minWeekdaysForConfidence = 5

// WeeklyTrends decomposes the trailing 30 days into day-of-week seasonality,
// ordered Sunday through Saturday, with best/worst day by average revenue.
func (e *Engine) WeeklyTrends(ctx context.Context) (*domain.WeeklyPattern, error) {
	series, err := e.history.DailySeries(ctx, weeklyLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading daily series: %w", err)
	}

	days := make([]domain.DayOfWeekPattern, 7)
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		days[weekday] = domain.DayOfWeekPattern{DayName: weekday.String()}
	}

	if len(series) == 0 {
		return &domain.WeeklyPattern{Days: days, Confidence: 0.4}, nil
	}

	revenueSums := make([]float64, 7)
	transactionSums := make([]int, 7)
	for _, point := range series {
		weekday := point.Date.Weekday()
		revenueSums[weekday] += coerceFloat(point.Revenue, 0)
		transactionSums[weekday] += point.TransactionCount
	}

	daysWithData := 0
	bestDay, worstDay := -1, -1
	for weekday := range days {
		if transactionSums[weekday] == 0 && revenueSums[weekday] == 0 {
			continue
		}
		daysWithData++

		avgRevenue := revenueSums[weekday] / assumedWeeksInWindow
		avgTransactions := float64(transactionSums[weekday]) / assumedWeeksInWindow

		avgTransactionValue := 0.0
		if transactionSums[weekday] > 0 {
			avgTransactionValue = revenueSums[weekday] / float64(transactionSums[weekday])
		}

		days[weekday].AvgRevenue = roundTo(avgRevenue, 2)
		days[weekday].AvgTransactions = roundTo(avgTransactions, 2)
		days[weekday].AvgTransactionValue = roundTo(avgTransactionValue, 2)
		days[weekday].HasData = true

		if bestDay < 0 || revenueSums[weekday] > revenueSums[bestDay] {
			bestDay = weekday
		}
		if worstDay < 0 || revenueSums[weekday] < revenueSums[worstDay] {
			worstDay = weekday
		}
	}

	pattern := &domain.WeeklyPattern{Days: days, Confidence: 0.4}
	if daysWithData >= minWeekdaysForConfidence {
		pattern.Confidence = 0.7
	}
	if bestDay >= 0 {
		pattern.BestDay = days[bestDay].DayName
	}
	if worstDay >= 0 {
		pattern.WorstDay = days[worstDay].DayName
	}

	return pattern, nil
}
