package services

import (
	"context"
	"fmt"

	"property-tracker/models"
	"property-tracker/storage"
	"property-tracker/utils"
)

// PageScraper fetches and extracts one page per call.
type PageScraper interface {
	ScrapeListings(ctx context.Context, url string) (*models.ListingPage, error)
	ScrapeRecentSales(ctx context.Context, url string) ([]*models.SaleRecord, error)
}

// SnapshotStore keeps every run's records for comparison across runs.
type SnapshotStore interface {
	storage.ListingWriter
	storage.SaleWriter
	PreviousPrices(ctx context.Context) (map[string]float64, error)
}

// Tracker runs the fetch → extract → write pipeline for each page kind.
type Tracker struct {
	scraper  PageScraper
	insights *InsightService
	store    SnapshotStore
	logger   *utils.Logger
}

// NewTracker creates a Tracker. store may be nil, in which case only the CSV
// files are written.
func NewTracker(scraper PageScraper, store SnapshotStore, logger *utils.Logger) *Tracker {
	return &Tracker{
		scraper:  scraper,
		insights: NewInsightService(logger),
		store:    store,
		logger:   logger,
	}
}

// Insights returns the service used to summarise listing runs.
func (t *Tracker) Insights() *InsightService { return t.insights }

// TrackListings initialises path with the listing header, then scrapes url
// and appends every priced listing. On an extraction error the file keeps
// only its header.
func (t *Tracker) TrackListings(ctx context.Context, url, path string) (*models.InsightReport, error) {
	csvWriter, err := storage.NewCSVWriter(path, storage.ListingColumns)
	if err != nil {
		return nil, err
	}

	page, err := t.scraper.ScrapeListings(ctx, url)
	if err != nil {
		return nil, err
	}

	if page.Tiles == 0 {
		t.logger.Warn("[tracker] No listing tiles found at %s", url)
	}

	if err := csvWriter.WriteListings(page.Listings); err != nil {
		return nil, fmt.Errorf("write listings: %w", err)
	}
	t.logger.Info("[tracker] Wrote %d listings to %s", len(page.Listings), path)

	var previous map[string]float64
	if t.store != nil {
		previous = t.snapshotListings(ctx, page.Listings)
	}

	return t.insights.Generate(page, previous), nil
}

// snapshotListings stores the run and loads earlier prices. Database
// failures are logged and never fail the run; the CSV file is the record.
func (t *Tracker) snapshotListings(ctx context.Context, listings []*models.PropertyListing) map[string]float64 {
	if err := t.store.WriteListings(listings); err != nil {
		t.logger.Error("[tracker] PostgreSQL write failed: %v", err)
		return nil
	}
	t.logger.Info("[tracker] Listings stored in PostgreSQL (table: property_listings)")

	previous, err := t.store.PreviousPrices(ctx)
	if err != nil {
		t.logger.Error("[tracker] Failed to load previous prices: %v", err)
		return nil
	}
	return previous
}

// TrackRecentSales initialises path with the sales header, then scrapes url
// and appends every sale record. It returns the number of rows written.
func (t *Tracker) TrackRecentSales(ctx context.Context, url, path string) (int, error) {
	csvWriter, err := storage.NewCSVWriter(path, storage.SaleColumns)
	if err != nil {
		return 0, err
	}

	records, err := t.scraper.ScrapeRecentSales(ctx, url)
	if err != nil {
		return 0, err
	}

	if err := csvWriter.WriteSales(records); err != nil {
		return 0, fmt.Errorf("write recent sales: %w", err)
	}
	t.logger.Info("[tracker] Wrote %d recent sales to %s", len(records), path)

	if t.store != nil {
		if err := t.store.WriteSales(records); err != nil {
			t.logger.Error("[tracker] PostgreSQL write failed: %v", err)
		}
	}

	return len(records), nil
}
