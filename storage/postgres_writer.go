package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"property-tracker/models"
	"property-tracker/utils"
)

const (
	listingInsertColumns = 17
	saleInsertColumns    = 5
	batchSize            = 50
)

// PostgresWriter appends every run's listings and sales to PostgreSQL as
// snapshots keyed by run id. Rows are never updated or de-duplicated.
type PostgresWriter struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn, runID string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID, now: time.Now}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS property_listings (
			id                  BIGSERIAL PRIMARY KEY,
			run_id              UUID          NOT NULL,
			scraped_at          TIMESTAMPTZ   NOT NULL,
			price               NUMERIC(14,2) NOT NULL,
			description         TEXT          NOT NULL,
			bedrooms            TEXT,
			bathrooms           TEXT,
			parking             TEXT,
			pool                BOOLEAN       NOT NULL,
			listing_number      TEXT          NOT NULL,
			property_type       TEXT          NOT NULL,
			listing_date        TEXT          NOT NULL,
			erf_size            TEXT,
			floor_size          TEXT,
			flatlet             BOOLEAN       NOT NULL,
			recent_sale_address TEXT,
			recent_sale_price   NUMERIC(14,2),
			recent_sale_date    TEXT
		);

		CREATE TABLE IF NOT EXISTS recent_sales (
			id              BIGSERIAL PRIMARY KEY,
			run_id          UUID          NOT NULL,
			scraped_at      TIMESTAMPTZ   NOT NULL,
			address         TEXT          NOT NULL,
			last_sold_price NUMERIC(14,2) NOT NULL,
			last_sold_date  TEXT          NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_property_listings_number ON property_listings(listing_number, scraped_at);
		CREATE INDEX IF NOT EXISTS idx_property_listings_run    ON property_listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_recent_sales_run         ON recent_sales(run_id);
	`)
	return err
}

// WriteListings batch-inserts the listings of this run.
func (pw *PostgresWriter) WriteListings(listings []*models.PropertyListing) error {
	at := pw.now()
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		query, args := buildListingInsert(listings[i:end], pw.runID, at)
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert listings: %w", err)
		}
	}
	return nil
}

// WriteSales batch-inserts the recent sale records of this run.
func (pw *PostgresWriter) WriteSales(records []*models.SaleRecord) error {
	at := pw.now()
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		query, args := buildSaleInsert(records[i:end], pw.runID, at)
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert sales: %w", err)
		}
	}
	return nil
}

// PreviousPrices returns, per listing number, the price recorded by the most
// recent earlier run. Listings first seen in this run are absent.
func (pw *PostgresWriter) PreviousPrices(ctx context.Context) (map[string]float64, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT DISTINCT ON (listing_number) listing_number, price
		FROM property_listings
		WHERE run_id <> $1
		ORDER BY listing_number, scraped_at DESC
	`, pw.runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: previous prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var number string
		var price float64
		if err := rows.Scan(&number, &price); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		prices[number] = price
	}
	return prices, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func buildListingInsert(batch []*models.PropertyListing, runID string, at time.Time) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*listingInsertColumns)

	for idx, l := range batch {
		valueStrings = append(valueStrings, placeholders(idx*listingInsertColumns, listingInsertColumns))

		var saleAddress, saleDate sql.NullString
		var salePrice sql.NullFloat64
		if s := l.RecentSale; s != nil {
			saleAddress = sql.NullString{String: s.Address, Valid: true}
			salePrice = sql.NullFloat64{Float64: s.Price, Valid: true}
			saleDate = sql.NullString{String: s.Date, Valid: true}
		}

		valueArgs = append(valueArgs,
			runID, at, l.Price, l.Description,
			l.Bedrooms, l.Bathrooms, l.Parking, l.Pool,
			l.ListingNumber, l.PropertyType, l.ListingDate,
			l.ErfSize, l.FloorSize, l.Flatlet,
			saleAddress, salePrice, saleDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO property_listings (run_id, scraped_at, price, description,
			bedrooms, bathrooms, parking, pool,
			listing_number, property_type, listing_date,
			erf_size, floor_size, flatlet,
			recent_sale_address, recent_sale_price, recent_sale_date)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func buildSaleInsert(batch []*models.SaleRecord, runID string, at time.Time) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*saleInsertColumns)

	for idx, r := range batch {
		valueStrings = append(valueStrings, placeholders(idx*saleInsertColumns, saleInsertColumns))
		valueArgs = append(valueArgs, runID, at, r.Address, r.LastSoldPrice, r.LastSoldDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO recent_sales (run_id, scraped_at, address, last_sold_price, last_sold_date)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// placeholders renders "($base+1,...,$base+n)".
func placeholders(base, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", base+i+1)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
