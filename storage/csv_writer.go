package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"property-tracker/models"
)

// ListingColumns is the header of a property listings file, in column order.
var ListingColumns = []string{
	"price",
	"description",
	"bedrooms",
	"bathrooms",
	"parking",
	"pool",
	"listing_number",
	"property_type",
	"listing_date",
	"erf_size",
	"floor_size",
	"flatlet",
	"recent_sales_address",
	"recent_sales_price",
	"recent_sales_date",
}

// SaleColumns is the header of a recent sales file.
var SaleColumns = []string{"address", "last_sold_price", "last_sold_date"}

// CSVWriter owns one output file for the duration of a run. The header is
// written once when the writer is created; each write call reopens the file
// in append mode and closes it again.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: flush header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("csv: close %q: %w", path, err)
	}

	return &CSVWriter{path: path}, nil
}

// Path returns the file the writer appends to.
func (c *CSVWriter) Path() string { return c.path }

// WriteListings appends one row per listing.
func (c *CSVWriter) WriteListings(listings []*models.PropertyListing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, listingRow(l))
	}
	return c.appendRows(rows)
}

// WriteSales appends one row per sale record.
func (c *CSVWriter) WriteSales(records []*models.SaleRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Address, formatFloat(r.LastSoldPrice), r.LastSoldDate})
	}
	return c.appendRows(rows)
}

func (c *CSVWriter) appendRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("csv: open %q for append: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return f.Close()
}

func listingRow(l *models.PropertyListing) []string {
	row := []string{
		formatFloat(l.Price),
		l.Description,
		optional(l.Bedrooms),
		optional(l.Bathrooms),
		optional(l.Parking),
		strconv.FormatBool(l.Pool),
		l.ListingNumber,
		l.PropertyType,
		l.ListingDate,
		optional(l.ErfSize),
		optional(l.FloorSize),
		strconv.FormatBool(l.Flatlet),
		"", "", "",
	}
	if s := l.RecentSale; s != nil {
		row[12] = s.Address
		row[13] = formatFloat(s.Price)
		row[14] = s.Date
	}
	return row
}

// optional renders a missing value as an empty cell.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
