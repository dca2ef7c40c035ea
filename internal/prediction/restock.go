package prediction

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/warungku/backend-go/internal/domain"
)

const (
	// restockCoverDays is how many days of projected demand a suggestion covers.
	restockCoverDays = 30

	// maxRestockSuggestions caps the returned list to the most urgent entries.
	maxRestockSuggestions = 20

	// Profitability adjustment thresholds on profit-per-unit.
	highProfitPerUnit = 100
	lowProfitPerUnit  = 20
)

// Priority score component caps: velocity 50, profitability 30, urgency 20.
const (
	velocityCap      = 50
	profitabilityCap = 30
	urgencyCap       = 20
)

// RestockSuggestions ranks every product that sold at all in the last 90 days
// by restock priority and returns the top 20, highest score first. Products
// with no sales in the window are excluded rather than reported as errors.
func (e *Engine) RestockSuggestions(ctx context.Context) ([]domain.RestockSuggestion, error) {
	products, err := e.history.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading active products: %w", err)
	}

	aggregates, err := e.history.SalesAggregates(ctx, restockLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading sales aggregates: %w", err)
	}

	suggestions := make([]domain.RestockSuggestion, 0, len(products))
	for _, product := range products {
		suggestion, ok := e.restockSuggestion(product, aggregates[product.ID])
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].PriorityScore > suggestions[j].PriorityScore
	})

	if len(suggestions) > maxRestockSuggestions {
		suggestions = suggestions[:maxRestockSuggestions]
	}

	return suggestions, nil
}

func (e *Engine) restockSuggestion(product domain.ProductSnapshot, agg domain.SalesAggregate) (domain.RestockSuggestion, bool) {
	// Normalize everything once at the boundary so no NaN reaches a formula.
	qtySold := coerceFloat(agg.TotalQuantitySold, 0)
	totalProfit := coerceFloat(agg.TotalProfit, 0)
	purchasePrice := coerceFloat(product.PurchasePrice, 0)
	minStock := coerceMinStock(product.MinStockAlert)
	saleDays := agg.DistinctSaleDays

	if qtySold <= 0 {
		return domain.RestockSuggestion{}, false
	}

	dailySales := qtySold / math.Max(float64(saleDays), 1)

	profitPerUnit := 0.0
	if qtySold > 0 {
		profitPerUnit = totalProfit / qtySold
	}

	// 30 days of projected demand plus one threshold's worth of safety stock.
	baseQty := dailySales*restockCoverDays + float64(minStock)
	switch {
	case profitPerUnit > highProfitPerUnit:
		baseQty *= 1.2
	case profitPerUnit < lowProfitPerUnit:
		baseQty *= 0.8
	}

	suggestedQty := int(math.Round(baseQty))
	if suggestedQty < minStock*2 {
		suggestedQty = minStock * 2
	}

	score := math.Min(dailySales*10, velocityCap) +
		math.Min(profitPerUnit/10, profitabilityCap) +
		math.Max(0, urgencyCap-float64(product.CurrentStock))

	if math.IsNaN(score) || math.IsInf(score, 0) {
		log.Warn().Int64("product_id", product.ID).Msg("restock suggestion skipped: non-computable priority score")
		return domain.RestockSuggestion{}, false
	}

	return domain.RestockSuggestion{
		ProductID:          product.ID,
		ProductName:        product.Name,
		CurrentStock:       product.CurrentStock,
		SuggestedQuantity:  suggestedQty,
		InvestmentRequired: roundTo(float64(suggestedQty)*purchasePrice, 2),
		DailySalesRate:     roundTo(dailySales, 2),
		ProfitPerUnit:      roundTo(profitPerUnit, 2),
		Priority:           priorityTier(score),
		PriorityScore:      roundTo(score, 1),
		Confidence:         math.Min(0.9, float64(saleDays)/30),
		Reasoning:          restockReasoning(dailySales, profitPerUnit, product.CurrentStock, score),
	}, true
}

func priorityTier(score float64) string {
	switch {
	case score >= 70:
		return domain.PriorityHigh
	case score >= 40:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func restockReasoning(dailySales, profitPerUnit float64, currentStock int, score float64) string {
	var reasons []string

	if dailySales > 5 {
		reasons = append(reasons, fmt.Sprintf("sells %.1f units per day", dailySales))
	}
	if profitPerUnit > highProfitPerUnit {
		reasons = append(reasons, fmt.Sprintf("earns %.0f profit per unit", profitPerUnit))
	}
	if currentStock < 5 {
		reasons = append(reasons, fmt.Sprintf("only %d units left", currentStock))
	}
	if score >= 70 {
		reasons = append(reasons, "top restock priority")
	}

	if len(reasons) == 0 {
		return "Steady sales history; restock to maintain coverage."
	}

	text := strings.Join(reasons, ", ")
	return strings.ToUpper(text[:1]) + text[1:] + "."
}
