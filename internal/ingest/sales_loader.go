// internal/ingest/sales_loader.go

// Package ingest loads product catalogs and historical sales exports into
// Postgres so the prediction engine has aggregates to read. Input is CSV,
// one file per concern, matching the export format of the POS frontend.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/warungku/backend-go/pkg/logger"
)

const saleDateLayout = "2006-01-02"

// SalesLoader writes catalog and sales rows into the transactional schema.
type SalesLoader struct {
	db *sql.DB
}

func NewSalesLoader(db *sql.DB) *SalesLoader {
	return &SalesLoader{db: db}
}

// EnsureProduct upserts a product by name and returns its id. Stock and price
// columns are only overwritten when the catalog row carries them.
func (l *SalesLoader) EnsureProduct(ctx context.Context, name string) (int64, error) {
	var id int64
	err := l.db.QueryRowContext(ctx,
		`WITH new_product AS (
            INSERT INTO products (name, current_stock, min_stock_alert, purchase_price, sale_price, active, created_at, updated_at)
            VALUES ($1, 0, 5, 0, 0, true, NOW(), NOW())
            ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
            RETURNING id
        ) SELECT id FROM new_product
        UNION ALL
        SELECT id FROM products WHERE name = $1`,
		name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring product %q: %w", name, err)
	}
	return id, nil
}

// LoadProducts imports a product catalog CSV. Expected columns:
// name, current_stock, min_stock_alert, purchase_price, sale_price.
func (l *SalesLoader) LoadProducts(ctx context.Context, path string) (int, error) {
	log := logger.For("ingest")

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening catalog file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	columns, err := headerIndex(reader)
	if err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning catalog transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO products (name, current_stock, min_stock_alert, purchase_price, sale_price, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
        ON CONFLICT (name) DO UPDATE SET
            current_stock = EXCLUDED.current_stock,
            min_stock_alert = EXCLUDED.min_stock_alert,
            purchase_price = EXCLUDED.purchase_price,
            sale_price = EXCLUDED.sale_price,
            updated_at = NOW()
    `)
	if err != nil {
		return 0, fmt.Errorf("preparing catalog insert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading catalog line %d: %w", line, err)
		}

		name := strings.TrimSpace(field(record, columns, "name"))
		if name == "" {
			log.Warn().Int("line", line).Msg("skipping catalog row without a name")
			continue
		}

		stock := parseIntField(field(record, columns, "current_stock"), 0)
		minStock := parseIntField(field(record, columns, "min_stock_alert"), 5)
		purchasePrice := parseFloatField(field(record, columns, "purchase_price"), 0)
		salePrice := parseFloatField(field(record, columns, "sale_price"), 0)

		if _, err := stmt.ExecContext(ctx, name, stock, minStock, purchasePrice, salePrice); err != nil {
			return 0, fmt.Errorf("upserting product %q (line %d): %w", name, line, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing catalog transaction: %w", err)
	}

	log.Info().Int("products", imported).Str("file", path).Msg("catalog imported")
	return imported, nil
}

// LoadSales imports a sales history CSV. Expected columns:
// receipt, sale_date, product, quantity, unit_price, unit_cost.
// Rows sharing a receipt become line items of one sale; sale totals are
// recomputed from the imported items at the end.
func (l *SalesLoader) LoadSales(ctx context.Context, path string) (int, error) {
	log := logger.For("ingest")

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening sales file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	columns, err := headerIndex(reader)
	if err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning sales transaction: %w", err)
	}
	defer tx.Rollback()

	itemStmt, err := tx.PrepareContext(ctx, `
        INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, unit_cost)
        VALUES ($1, $2, $3, $4, $5)
    `)
	if err != nil {
		return 0, fmt.Errorf("preparing sale item insert: %w", err)
	}
	defer itemStmt.Close()

	productIDs := make(map[string]int64)
	saleIDs := make(map[string]int64)
	imported := 0

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading sales line %d: %w", line, err)
		}

		receipt := strings.TrimSpace(field(record, columns, "receipt"))
		productName := strings.TrimSpace(field(record, columns, "product"))
		if receipt == "" || productName == "" {
			log.Warn().Int("line", line).Msg("skipping sales row without receipt or product")
			continue
		}

		saleDate, err := time.Parse(saleDateLayout, strings.TrimSpace(field(record, columns, "sale_date")))
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping sales row with unparseable date")
			continue
		}

		quantity := parseIntField(field(record, columns, "quantity"), 0)
		if quantity <= 0 {
			log.Warn().Int("line", line).Msg("skipping sales row with non-positive quantity")
			continue
		}
		unitPrice := parseFloatField(field(record, columns, "unit_price"), 0)
		unitCost := parseFloatField(field(record, columns, "unit_cost"), 0)

		productID, ok := productIDs[productName]
		if !ok {
			productID, err = l.ensureProductTx(ctx, tx, productName)
			if err != nil {
				return 0, err
			}
			productIDs[productName] = productID
		}

		saleID, ok := saleIDs[receipt]
		if !ok {
			err = tx.QueryRowContext(ctx,
				`INSERT INTO sales (receipt, sale_date, total_amount, created_at)
                 VALUES ($1, $2, 0, NOW())
                 ON CONFLICT (receipt) DO UPDATE SET sale_date = EXCLUDED.sale_date
                 RETURNING id`,
				receipt, saleDate,
			).Scan(&saleID)
			if err != nil {
				return 0, fmt.Errorf("creating sale %q (line %d): %w", receipt, line, err)
			}
			saleIDs[receipt] = saleID
		}

		if _, err := itemStmt.ExecContext(ctx, saleID, productID, quantity, unitPrice, unitCost); err != nil {
			return 0, fmt.Errorf("inserting sale item (line %d): %w", line, err)
		}
		imported++
	}

	// Recompute totals once, from the items just written.
	if _, err := tx.ExecContext(ctx, `
        UPDATE sales s SET total_amount = agg.total
        FROM (
            SELECT sale_id, SUM(quantity * unit_price) AS total
            FROM sale_items
            GROUP BY sale_id
        ) agg
        WHERE agg.sale_id = s.id
    `); err != nil {
		return 0, fmt.Errorf("recomputing sale totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sales transaction: %w", err)
	}

	log.Info().Int("items", imported).Int("sales", len(saleIDs)).Str("file", path).Msg("sales history imported")
	return imported, nil
}

func (l *SalesLoader) ensureProductTx(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`WITH new_product AS (
            INSERT INTO products (name, current_stock, min_stock_alert, purchase_price, sale_price, active, created_at, updated_at)
            VALUES ($1, 0, 5, 0, 0, true, NOW(), NOW())
            ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
            RETURNING id
        ) SELECT id FROM new_product
        UNION ALL
        SELECT id FROM products WHERE name = $1`,
		name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring product %q: %w", name, err)
	}
	return id, nil
}

// headerIndex reads the CSV header row and maps normalized column names to
// their positions.
func headerIndex(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns, nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseIntField(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func parseFloatField(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return v
}
