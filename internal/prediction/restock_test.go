package prediction

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungku/backend-go/internal/domain"
)

func TestRestockSuggestionQuantity(t *testing.T) {
	tests := []struct {
		name         string
		stock        int
		minStock     int
		quantitySold float64
		totalProfit  float64
		wantQty      int
	}{
		{
			// 60 units over 30 sale days is 2/day; 2*30 + 5 = 65, no price adjustment.
			name:         "base quantity covers thirty days plus safety stock",
			stock:        10,
			minStock:     5,
			quantitySold: 60,
			totalProfit:  3000, // 50 profit per unit
			wantQty:      65,
		},
		{
			// High-margin products get a 20% bump: (2*30 + 5) * 1.2 = 78.
			name:         "high margin bumps the order",
			stock:        10,
			minStock:     5,
			quantitySold: 60,
			totalProfit:  9000, // 150 profit per unit
			wantQty:      78,
		},
		{
			// Low-margin products shrink 20%: (2*30 + 5) * 0.8 = 52.
			name:         "low margin trims the order",
			stock:        10,
			minStock:     5,
			quantitySold: 60,
			totalProfit:  600, // 10 profit per unit
			wantQty:      52,
		},
		{
			// 6 units over 30 days barely moves; floor at twice the threshold.
			name:         "slow sellers still get twice the reorder threshold",
			stock:        10,
			minStock:     10,
			quantitySold: 6,
			totalProfit:  300,
			wantQty:      20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &fakeHistory{
				products: []domain.ProductSnapshot{
					{ID: 1, Name: "Minyak Goreng", CurrentStock: tt.stock, MinStockAlert: tt.minStock, PurchasePrice: 12, Active: true},
				},
				aggregates: map[int64]domain.SalesAggregate{
					1: {ProductID: 1, DistinctSaleDays: 30, TotalQuantitySold: tt.quantitySold, TotalProfit: tt.totalProfit},
				},
			}

			suggestions, err := newTestEngine(history).RestockSuggestions(context.Background())
			require.NoError(t, err)
			require.Len(t, suggestions, 1)
			assert.Equal(t, tt.wantQty, suggestions[0].SuggestedQuantity)
			assert.InDelta(t, float64(tt.wantQty)*12, suggestions[0].InvestmentRequired, 0.01)
		})
	}
}

func TestRestockSuggestionsExcludeZeroSellers(t *testing.T) {
	history := &fakeHistory{
		products: []domain.ProductSnapshot{
			{ID: 1, Name: "Moves", CurrentStock: 10, MinStockAlert: 5, Active: true},
			{ID: 2, Name: "Never Sold", CurrentStock: 10, MinStockAlert: 5, Active: true},
		},
		aggregates: map[int64]domain.SalesAggregate{
			1: {ProductID: 1, DistinctSaleDays: 10, TotalQuantitySold: 20, TotalProfit: 400},
		},
	}

	suggestions, err := newTestEngine(history).RestockSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Moves", suggestions[0].ProductName)
}

func TestRestockPriorityScoreIsBounded(t *testing.T) {
	// Extreme velocity, margin and urgency together max out at exactly 100.
	history := &fakeHistory{
		products: []domain.ProductSnapshot{
			{ID: 1, Name: "Hot Item", CurrentStock: 0, MinStockAlert: 5, PurchasePrice: 200, Active: true},
		},
		aggregates: map[int64]domain.SalesAggregate{
			1: {ProductID: 1, DistinctSaleDays: 10, TotalQuantitySold: 10000, TotalProfit: 10000000},
		},
	}

	suggestions, err := newTestEngine(history).RestockSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.InDelta(t, 100, suggestions[0].PriorityScore, 0.001)
	assert.Equal(t, domain.PriorityHigh, suggestions[0].Priority)
}

func TestRestockPriorityTiers(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{85, domain.PriorityHigh},
		{70, domain.PriorityHigh},
		{55, domain.PriorityMedium},
		{40, domain.PriorityMedium},
		{12, domain.PriorityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, priorityTier(tt.score), "score %.0f", tt.score)
	}
}

func TestRestockSuggestionsRankedAndCapped(t *testing.T) {
	history := &fakeHistory{aggregates: map[int64]domain.SalesAggregate{}}
	for i := int64(1); i <= 30; i++ {
		history.products = append(history.products, domain.ProductSnapshot{
			ID:            i,
			Name:          fmt.Sprintf("Product %d", i),
			CurrentStock:  int(i), // lower stock scores higher urgency
			MinStockAlert: 5,
			Active:        true,
		})
		history.aggregates[i] = domain.SalesAggregate{
			ProductID:         i,
			DistinctSaleDays:  10,
			TotalQuantitySold: 20,
			TotalProfit:       400,
		}
	}

	suggestions, err := newTestEngine(history).RestockSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, maxRestockSuggestions)

	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].PriorityScore, suggestions[i].PriorityScore)
	}
	// Product 1 has the least stock on hand, so it ranks first.
	assert.Equal(t, int64(1), suggestions[0].ProductID)
}

func TestRestockConfidenceGrowsWithHistory(t *testing.T) {
	confidenceFor := func(saleDays int) float64 {
		history := &fakeHistory{
			products: []domain.ProductSnapshot{
				{ID: 1, Name: "Beras", CurrentStock: 10, MinStockAlert: 5, Active: true},
			},
			aggregates: map[int64]domain.SalesAggregate{
				1: {ProductID: 1, DistinctSaleDays: saleDays, TotalQuantitySold: 50, TotalProfit: 1000},
			},
		}

		suggestions, err := newTestEngine(history).RestockSuggestions(context.Background())
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		return suggestions[0].Confidence
	}

	assert.InDelta(t, 0.5, confidenceFor(15), 0.001)
	assert.InDelta(t, 0.9, confidenceFor(90), 0.001, "confidence caps at 0.9")
}
