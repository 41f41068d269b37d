package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"property-tracker/models"
	"property-tracker/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises one run. previous maps listing numbers to the price of
// an earlier run and may be nil when no history is kept.
func (s *InsightService) Generate(page *models.ListingPage, previous map[string]float64) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByType:   make(map[string]int),
		AveragePriceType: make(map[string]float64),
	}
	if page == nil {
		return report
	}

	report.SkippedTiles = page.Skipped
	listings := page.Listings
	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.MinPrice = listings[0].Price
	report.MaxPrice = listings[0].Price
	report.MostExpensive = listings[0]
	report.Cheapest = listings[0]

	var total float64
	totalByType := make(map[string]float64)

	for _, l := range listings {
		total += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
			report.Cheapest = l
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
			report.MostExpensive = l
		}
		if l.Pool {
			report.WithPool++
		}
		if l.RecentSale != nil {
			report.WithRecentSale++
		}
		report.ListingsByType[l.PropertyType]++
		totalByType[l.PropertyType] += l.Price
	}

	report.AveragePrice = round2(total / float64(len(listings)))
	for t, sum := range totalByType {
		report.AveragePriceType[t] = round2(sum / float64(report.ListingsByType[t]))
	}

	if previous != nil {
		report.PriceChanges, report.NewListings = priceChanges(listings, previous)
		s.logger.Debug("[insights] %d price changes, %d new listings", len(report.PriceChanges), report.NewListings)
	}

	return report
}

// priceChanges compares listings against earlier prices, largest move first.
func priceChanges(listings []*models.PropertyListing, previous map[string]float64) ([]models.PriceChange, int) {
	var changes []models.PriceChange
	newListings := 0

	for _, l := range listings {
		before, seen := previous[l.ListingNumber]
		if !seen {
			newListings++
			continue
		}
		if before == l.Price {
			continue
		}
		changes = append(changes, models.PriceChange{
			ListingNumber: l.ListingNumber,
			Description:   l.Description,
			Previous:      before,
			Current:       l.Price,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return math.Abs(changes[i].Delta()) > math.Abs(changes[j].Delta())
	})
	return changes, newListings
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  PROPERTY PRICE SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Priced listings        : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Tiles without a price  : \033[1m%d\033[0m\n", r.SkippedTiles)
	fmt.Fprintf(w, "  With pool              : \033[1m%d\033[0m\n", r.WithPool)
	fmt.Fprintf(w, "  With recent sale       : \033[1m%d\033[0m\n", r.WithRecentSale)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32mR%s\033[0m\n", formatRand(r.AveragePrice))
		fmt.Fprintf(w, "  Minimum price : \033[1;32mR%s\033[0m\n", formatRand(r.MinPrice))
		fmt.Fprintf(w, "  Maximum price : \033[1;32mR%s\033[0m\n", formatRand(r.MaxPrice))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Description, 50))
		fmt.Fprintf(w, "  Listing  : %s (%s)\n", r.MostExpensive.ListingNumber, r.MostExpensive.PropertyType)
		fmt.Fprintf(w, "  Price    : \033[1;31mR%s\033[0m\n", formatRand(r.MostExpensive.Price))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Listings by Property Type\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByType) == 0 {
		fmt.Fprintf(w, "  No listings\n")
	} else {
		type typeCount struct {
			name  string
			count int
		}
		var types []typeCount
		for name, cnt := range r.ListingsByType {
			types = append(types, typeCount{name, cnt})
		}
		sort.Slice(types, func(i, j int) bool {
			if types[i].count != types[j].count {
				return types[i].count > types[j].count
			}
			return types[i].name < types[j].name
		})
		for _, tc := range types {
			bar := strings.Repeat("█", tc.count)
			fmt.Fprintf(w, "  %-20s %s (%d, avg R%s)\n",
				truncate(tc.name, 18), bar, tc.count, formatRand(r.AveragePriceType[tc.name]))
		}
	}

	if len(r.PriceChanges) > 0 || r.NewListings > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "\033[1;33m  Since Previous Run\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  New listings : %d\n", r.NewListings)
		for _, c := range r.PriceChanges {
			colour := "32"
			if c.Delta() > 0 {
				colour = "31"
			}
			fmt.Fprintf(w, "  %-12s R%s → \033[1;%sm R%s\033[0m\n",
				c.ListingNumber, formatRand(c.Previous), colour, formatRand(c.Current))
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// formatRand renders whole rand with space thousands separators: 1 250 000.
func formatRand(f float64) string {
	digits := fmt.Sprintf("%.0f", math.Abs(f))
	var b strings.Builder
	if f < 0 {
		b.WriteByte('-')
	}
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
