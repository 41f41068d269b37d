package property24

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"property-tracker/models"
)

// ParseDocument parses an HTML body. The content type is assumed to be HTML
// whatever the server declared.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ExtractListings walks every listing tile of a search-results page.
// Tiles without a price are skipped. Any other missing required element fails
// the whole page, so a returned error means no listing of the page is usable.
func ExtractListings(doc *goquery.Document) (*models.ListingPage, error) {
	tiles := doc.Find(TileSelector)
	page := &models.ListingPage{
		Listings: make([]*models.PropertyListing, 0, tiles.Length()),
		Tiles:    tiles.Length(),
	}

	var err error
	tiles.EachWithBreak(func(i int, tile *goquery.Selection) bool {
		listing, tileErr := extractListing(tile)
		if tileErr != nil {
			err = fmt.Errorf("listing tile %d: %w", i, tileErr)
			return false
		}
		if listing == nil {
			page.Skipped++
			return true
		}
		page.Listings = append(page.Listings, listing)
		return true
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

// extractListing returns nil without error for an unpriced tile.
func extractListing(tile *goquery.Selection) (*models.PropertyListing, error) {
	priceEl := tile.Find(PriceSelector).First()
	if priceEl.Length() == 0 {
		return nil, nil
	}
	price, err := ParsePrice(priceEl.Text())
	if err != nil {
		return nil, err
	}

	l := &models.PropertyListing{
		Price:     price,
		Bedrooms:  optionalText(tile, BedroomsSelector),
		Bathrooms: optionalText(tile, BathroomsSelector),
		Parking:   optionalText(tile, ParkingSelector),
		Pool:      exists(tile, PoolSelector),
	}

	if l.Description, err = requiredText(tile, DescriptionSelector); err != nil {
		return nil, err
	}

	number, ok := tile.Attr(ListingNumberAttr)
	if !ok {
		return nil, newElementNotFoundError(TileSelector + "[" + ListingNumberAttr + "]")
	}
	l.ListingNumber = number

	if l.PropertyType, err = requiredText(tile, PropertyTypeSelector); err != nil {
		return nil, err
	}
	if l.ListingDate, err = requiredText(tile, ListingDateSelector); err != nil {
		return nil, err
	}

	applyDetailLines(tile, l)

	if block := tile.Find(RecentListingSelector).First(); block.Length() > 0 {
		sale, err := extractRecentSale(block)
		if err != nil {
			return nil, err
		}
		l.RecentSale = sale
	}

	return l, nil
}

// applyDetailLines classifies each feature detail by the first marker its text
// contains. A later line of the same kind overwrites an earlier one.
func applyDetailLines(tile *goquery.Selection, l *models.PropertyListing) {
	tile.Find(FeatureDetailSelector).Each(func(_ int, detail *goquery.Selection) {
		text := detail.Text()
		switch {
		case strings.Contains(text, erfSizeMarker):
			l.ErfSize = lastToken(text)
		case strings.Contains(text, floorSizeMarker):
			l.FloorSize = lastToken(text)
		case strings.Contains(text, flatletMarker):
			l.Flatlet = true
		}
	})
}

func extractRecentSale(block *goquery.Selection) (*models.RecentSale, error) {
	address, err := requiredText(block, LocationSelector)
	if err != nil {
		return nil, scoped(RecentListingSelector, err)
	}
	price, err := requiredPrice(block, PriceSelector)
	if err != nil {
		return nil, scoped(RecentListingSelector, err)
	}
	date, err := requiredText(block, ListingDateSelector)
	if err != nil {
		return nil, scoped(RecentListingSelector, err)
	}

	return &models.RecentSale{Address: address, Price: price, Date: date}, nil
}

// ExtractRecentSales reads every item of a recent-sales page. All three
// fields are required; the first incomplete item fails the page.
func ExtractRecentSales(doc *goquery.Document) ([]*models.SaleRecord, error) {
	items := doc.Find(RecentSalesItemSelector)
	records := make([]*models.SaleRecord, 0, items.Length())

	var err error
	items.EachWithBreak(func(i int, item *goquery.Selection) bool {
		rec, itemErr := extractSaleRecord(item)
		if itemErr != nil {
			err = fmt.Errorf("recent sales item %d: %w", i, scoped(RecentSalesItemSelector, itemErr))
			return false
		}
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func extractSaleRecord(item *goquery.Selection) (*models.SaleRecord, error) {
	address, err := requiredText(item, LocationSelector)
	if err != nil {
		return nil, err
	}
	price, err := requiredPrice(item, PriceSelector)
	if err != nil {
		return nil, err
	}
	date, err := requiredText(item, ListingDateSelector)
	if err != nil {
		return nil, err
	}

	return &models.SaleRecord{Address: address, LastSoldPrice: price, LastSoldDate: date}, nil
}

// optional looks up the first element matching selector and maps it through
// transform. A missing element yields nil.
func optional[T any](s *goquery.Selection, selector string, transform func(*goquery.Selection) T) *T {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return nil
	}
	v := transform(el)
	return &v
}

func optionalText(s *goquery.Selection, selector string) *string {
	return optional(s, selector, trimmedText)
}

func requiredText(s *goquery.Selection, selector string) (string, error) {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return "", newElementNotFoundError(selector)
	}
	return trimmedText(el), nil
}

func requiredPrice(s *goquery.Selection, selector string) (float64, error) {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return 0, newElementNotFoundError(selector)
	}
	return ParsePrice(el.Text())
}

func exists(s *goquery.Selection, selector string) bool {
	return s.Find(selector).Length() > 0
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// lastToken returns the last space-separated token of a trimmed detail line,
// so "Erf Size: 500 m²" yields "m²". Only U+0020 separates tokens; a
// non-breaking space stays inside the token ("500\u00a0m²").
func lastToken(text string) *string {
	parts := strings.Split(strings.TrimSpace(text), " ")
	return &parts[len(parts)-1]
}

// scoped prefixes the selector of a not-found error with its parent block.
func scoped(parent string, err error) error {
	if nf, ok := err.(*ElementNotFoundError); ok {
		return newElementNotFoundError(parent + " " + nf.Selector)
	}
	return err
}
