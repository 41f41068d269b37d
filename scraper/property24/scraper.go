package property24

import (
	"context"
	"fmt"
	"time"

	"property-tracker/config"
	"property-tracker/models"
	"property-tracker/utils"
)

// Scraper fetches property24 pages and extracts records from them.
type Scraper struct {
	fetcher Fetcher
	logger  *utils.Logger
}

// New creates a Scraper using the fetcher selected by cfg.FetchMode.
func New(cfg *config.Config, logger *utils.Logger) (*Scraper, error) {
	var f Fetcher
	switch cfg.FetchMode {
	case config.FetchModeHTTP, "":
		f = NewHTTPFetcher(time.Duration(cfg.HTTPTimeoutSec)*time.Second, cfg.UserAgent, logger)
	case config.FetchModeBrowser:
		f = NewBrowserFetcher(cfg.ChromeBin, cfg.UserAgent, logger)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", cfg.FetchMode)
	}
	return NewWithFetcher(f, logger), nil
}

// NewWithFetcher creates a Scraper around an existing Fetcher.
func NewWithFetcher(f Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{fetcher: f, logger: logger}
}

// ScrapeListings fetches a search-results page and extracts its listings.
func (s *Scraper) ScrapeListings(ctx context.Context, url string) (*models.ListingPage, error) {
	s.logger.Info("[property24] Fetching listings page %s", url)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}

	page, err := ExtractListings(doc)
	if err != nil {
		return nil, fmt.Errorf("extract listings from %s: %w", url, err)
	}

	if page.Skipped > 0 {
		s.logger.Debug("[property24] Skipped %d tile(s) without a price", page.Skipped)
	}
	s.logger.Info("[property24] Extracted %d listings from %d tiles", len(page.Listings), page.Tiles)
	return page, nil
}

// ScrapeRecentSales fetches a recent-sales page and extracts its sale records.
func (s *Scraper) ScrapeRecentSales(ctx context.Context, url string) ([]*models.SaleRecord, error) {
	s.logger.Info("[property24] Fetching recent sales page %s", url)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}

	records, err := ExtractRecentSales(doc)
	if err != nil {
		return nil, fmt.Errorf("extract recent sales from %s: %w", url, err)
	}

	s.logger.Info("[property24] Extracted %d recent sales", len(records))
	return records, nil
}
