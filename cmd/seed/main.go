// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/warungku/backend-go/internal/ingest"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func loaderFromContext(c *cli.Context) (*ingest.SalesLoader, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not found in context")
	}
	return ingest.NewSalesLoader(db), nil
}

func seedProducts(c *cli.Context) error {
	loader, err := loaderFromContext(c)
	if err != nil {
		return err
	}

	count, err := loader.LoadProducts(c.Context, c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("imported %d products", count)
	return nil
}

func seedSales(c *cli.Context) error {
	loader, err := loaderFromContext(c)
	if err != nil {
		return err
	}

	count, err := loader.LoadSales(c.Context, c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("imported %d sale items", count)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load catalog and sales history into the database",
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Import a product catalog CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Path to the catalog CSV",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProducts,
			},
			{
				Name:  "sales",
				Usage: "Import a sales history CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Path to the sales history CSV",
						Value:   "./data/seeds/sales.csv",
						EnvVars: []string{"SEED_SALES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedSales,
			},
			{
				Name:  "all",
				Usage: "Import catalog then sales history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "products-file",
						Usage:   "Path to the catalog CSV",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
					&cli.StringFlag{
						Name:    "sales-file",
						Usage:   "Path to the sales history CSV",
						Value:   "./data/seeds/sales.csv",
						EnvVars: []string{"SEED_SALES_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					loader, err := loaderFromContext(c)
					if err != nil {
						return err
					}

					products, err := loader.LoadProducts(c.Context, c.String("products-file"))
					if err != nil {
						return err
					}
					items, err := loader.LoadSales(c.Context, c.String("sales-file"))
					if err != nil {
						return err
					}
					log.Printf("imported %d products and %d sale items", products, items)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
