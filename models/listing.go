package models

// PropertyListing is one priced tile from a property24 search-results page.
// Pointer fields are optional markup and stay nil when the element is missing;
// value fields are required and their absence fails extraction.
type PropertyListing struct {
	Price         float64
	Description   string
	Bedrooms      *string
	Bathrooms     *string
	Parking       *string
	Pool          bool
	ListingNumber string
	PropertyType  string
	ListingDate   string
	ErfSize       *string
	FloorSize     *string
	Flatlet       bool
	RecentSale    *RecentSale
}

// RecentSale is the previously recorded sale shown inside a listing tile.
type RecentSale struct {
	Address string
	Price   float64
	Date    string
}

// SaleRecord is one item from a recent-sales page. It is unrelated to
// PropertyListing and written to its own file.
type SaleRecord struct {
	Address       string
	LastSoldPrice float64
	LastSoldDate  string
}

// ListingPage is the result of extracting one search-results page.
type ListingPage struct {
	Listings []*PropertyListing
	// Tiles is the number of listing tiles found, including the unpriced ones.
	Tiles int
	// Skipped counts tiles dropped because they carried no price.
	Skipped int
}

// InsightReport holds the price summary computed over one run's listings.
type InsightReport struct {
	TotalListings    int
	SkippedTiles     int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	MostExpensive    *PropertyListing
	Cheapest         *PropertyListing
	WithPool         int
	WithRecentSale   int
	ListingsByType   map[string]int
	AveragePriceType map[string]float64

	// PriceChanges is only filled when earlier runs are available.
	PriceChanges []PriceChange
	NewListings  int
}

// PriceChange records a listing whose price moved since the previous run.
type PriceChange struct {
	ListingNumber string
	Description   string
	Previous      float64
	Current       float64
}

// Delta returns the absolute change, negative for a price drop.
func (p PriceChange) Delta() float64 { return p.Current - p.Previous }
