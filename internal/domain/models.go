// internal/domain/models.go
package domain

import "time"

// ProductSnapshot is the read-only view of a product as the CRUD layer keeps it.
type ProductSnapshot struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	CurrentStock  int     `json:"current_stock" db:"current_stock"`
	MinStockAlert int     `json:"min_stock_alert" db:"min_stock_alert"`
	PurchasePrice float64 `json:"purchase_price" db:"purchase_price"`
	SalePrice     float64 `json:"sale_price" db:"sale_price"`
	Active        bool    `json:"active" db:"active"`
}

// SalesAggregate summarizes one product's sale lines over a lookback window.
// Derived fresh per call by the history reader; never persisted.
type SalesAggregate struct {
	ProductID         int64      `json:"product_id" db:"product_id"`
	DistinctSaleDays  int        `json:"distinct_sale_days" db:"distinct_sale_days"`
	TotalQuantitySold float64    `json:"total_quantity_sold" db:"total_quantity_sold"`
	TotalProfit       float64    `json:"total_profit" db:"total_profit"`
	LastSaleDate      *time.Time `json:"last_sale_date" db:"last_sale_date"`
}

// DailyRevenuePoint is one day of business-wide sales activity.
type DailyRevenuePoint struct {
	Date                    time.Time `json:"date" db:"date"`
	TransactionCount        int       `json:"transaction_count" db:"transaction_count"`
	Revenue                 float64   `json:"revenue" db:"revenue"`
	AverageTransactionValue float64   `json:"average_transaction_value" db:"average_transaction_value"`
}

// ProductDailyPoint is one day of sales activity for a single product.
type ProductDailyPoint struct {
	Date     time.Time `json:"date" db:"date"`
	Quantity float64   `json:"quantity" db:"quantity"`
	Revenue  float64   `json:"revenue" db:"revenue"`
}
