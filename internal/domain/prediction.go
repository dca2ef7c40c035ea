// internal/domain/prediction.go
package domain

import "time"

// PredictionType identifies the kind of payload stored in the prediction cache.
// The caller assigns a TTL per type; the engine never decides TTLs.
type PredictionType string

const (
	PredictionStockAlerts        PredictionType = "stock_alerts"
	PredictionRestockSuggestions PredictionType = "restock_suggestions"
	PredictionSalesForecast      PredictionType = "sales_forecast"
	PredictionProductForecast    PredictionType = "product_forecast"
	PredictionWeeklyTrends       PredictionType = "weekly_trends"
)

// Alert levels, ordered by urgency.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
	AlertInfo     = "info"
)

// Restock priority tiers.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Trend classifications for sales forecasts.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
	TrendNoData           = "no_data"
)

// StockAlert flags a product expected to run out of stock soon.
// DaysUntilStockout is +Inf when the consumption rate is zero, but such
// products never make it into an alert list (they sit above every tier).
type StockAlert struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	CurrentStock      int     `json:"current_stock"`
	DailyConsumption  float64 `json:"daily_consumption"`
	DaysUntilStockout float64 `json:"days_until_stockout"`
	AlertLevel        string  `json:"alert_level"`
	Confidence        float64 `json:"confidence"`
	Recommendation    string  `json:"recommendation"`
}

// RestockSuggestion recommends a reorder quantity for a product, ranked by a
// bounded priority score (velocity + profitability + stock urgency, max 100).
type RestockSuggestion struct {
	ProductID          int64   `json:"product_id"`
	ProductName        string  `json:"product_name"`
	CurrentStock       int     `json:"current_stock"`
	SuggestedQuantity  int     `json:"suggested_quantity"`
	InvestmentRequired float64 `json:"investment_required"`
	DailySalesRate     float64 `json:"daily_sales_rate"`
	ProfitPerUnit      float64 `json:"profit_per_unit"`
	Priority           string  `json:"priority"`
	PriorityScore      float64 `json:"priority_score"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
}

// ForecastPoint is one projected future day. PredictedRevenue is populated for
// business-wide forecasts, PredictedQuantity for per-product ones.
type ForecastPoint struct {
	Date                  time.Time `json:"date"`
	PredictedRevenue      float64   `json:"predicted_revenue,omitempty"`
	PredictedQuantity     float64   `json:"predicted_quantity,omitempty"`
	PredictedTransactions int       `json:"predicted_transactions,omitempty"`
	Confidence            float64   `json:"confidence"`
}

// SalesForecast is an ordered, finite sequence of projected days.
type SalesForecast struct {
	ProductID             int64           `json:"product_id,omitempty"`
	ProductName           string          `json:"product_name,omitempty"`
	Trend                 string          `json:"trend"`
	Points                []ForecastPoint `json:"points"`
	TotalPredictedRevenue float64         `json:"total_predicted_revenue,omitempty"`
	Confidence            float64         `json:"confidence"`
	DataPoints            int             `json:"data_points"`
}

// DayOfWeekPattern is the averaged sales profile of one weekday.
type DayOfWeekPattern struct {
	DayName             string  `json:"day_name"`
	AvgRevenue          float64 `json:"avg_revenue"`
	AvgTransactions     float64 `json:"avg_transactions"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	HasData             bool    `json:"has_data"`
}

// WeeklyPattern is the day-of-week seasonality decomposition of recent sales,
// ordered Sunday through Saturday.
type WeeklyPattern struct {
	Days       []DayOfWeekPattern `json:"days"`
	BestDay    string             `json:"best_day"`
	WorstDay   string             `json:"worst_day"`
	Confidence float64            `json:"confidence"`
}
