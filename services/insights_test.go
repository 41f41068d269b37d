package services

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"property-tracker/models"
	"property-tracker/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger(utils.WithOutput(io.Discard)) }

func samplePage() *models.ListingPage {
	return &models.ListingPage{
		Tiles:   6,
		Skipped: 1,
		Listings: []*models.PropertyListing{
			{ListingNumber: "1", Description: "Villa A", Price: 2000000, PropertyType: "House", Pool: true},
			{ListingNumber: "2", Description: "Flat B", Price: 850000, PropertyType: "Apartment"},
			{ListingNumber: "3", Description: "House C", Price: 1250000, PropertyType: "House",
				RecentSale: &models.RecentSale{Address: "x", Price: 900000, Date: "2019"}},
			{ListingNumber: "4", Description: "Stand D", Price: 400000, PropertyType: "Vacant Land"},
			{ListingNumber: "5", Description: "Townhouse E", Price: 1500000, PropertyType: "Townhouse", Pool: true},
		},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(samplePage(), nil)
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.SkippedTiles != 1 {
		t.Errorf("SkippedTiles: got %d, want 1", r.SkippedTiles)
	}
	if r.WithPool != 2 {
		t.Errorf("WithPool: got %d, want 2", r.WithPool)
	}
	if r.WithRecentSale != 1 {
		t.Errorf("WithRecentSale: got %d, want 1", r.WithRecentSale)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(samplePage(), nil)
	if r.AveragePrice != 1200000 {
		t.Errorf("AveragePrice: got %.2f, want 1200000", r.AveragePrice)
	}
	if r.MinPrice != 400000 {
		t.Errorf("MinPrice: got %.2f, want 400000", r.MinPrice)
	}
	if r.MaxPrice != 2000000 {
		t.Errorf("MaxPrice: got %.2f, want 2000000", r.MaxPrice)
	}
	if r.MostExpensive == nil || r.MostExpensive.Description != "Villa A" {
		t.Errorf("MostExpensive: got %+v, want Villa A", r.MostExpensive)
	}
	if r.Cheapest == nil || r.Cheapest.Description != "Stand D" {
		t.Errorf("Cheapest: got %+v, want Stand D", r.Cheapest)
	}
}

func TestInsightTypeGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(samplePage(), nil)
	if r.ListingsByType["House"] != 2 {
		t.Errorf("House count: got %d, want 2", r.ListingsByType["House"])
	}
	if r.AveragePriceType["House"] != 1625000 {
		t.Errorf("House average: got %.2f, want 1625000", r.AveragePriceType["House"])
	}
}

func TestInsightPriceChanges(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	previous := map[string]float64{
		"1": 2100000, // dropped by 100 000
		"2": 850000,  // unchanged
		"3": 1000000, // up by 250 000
	}
	r := svc.Generate(samplePage(), previous)

	if r.NewListings != 2 {
		t.Errorf("NewListings: got %d, want 2", r.NewListings)
	}
	if len(r.PriceChanges) != 2 {
		t.Fatalf("PriceChanges: got %d, want 2", len(r.PriceChanges))
	}
	if r.PriceChanges[0].ListingNumber != "3" || r.PriceChanges[0].Delta() != 250000 {
		t.Errorf("largest change first: got %+v", r.PriceChanges[0])
	}
	if r.PriceChanges[1].Delta() != -100000 {
		t.Errorf("drop: got %.2f, want -100000", r.PriceChanges[1].Delta())
	}
}

func TestInsightNoHistory(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(samplePage(), nil)
	if r.PriceChanges != nil || r.NewListings != 0 {
		t.Error("no history should yield no price change section")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	for _, page := range []*models.ListingPage{nil, {}} {
		r := svc.Generate(page, nil)
		if r.TotalListings != 0 || r.MostExpensive != nil {
			t.Errorf("expected empty report, got %+v", r)
		}
	}
}

func TestFormatRand(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{850, "850"},
		{1250000, "1 250 000"},
		{100000, "100 000"},
		{-25000, "-25 000"},
	}
	for _, tt := range tests {
		if got := formatRand(tt.in); got != tt.want {
			t.Errorf("formatRand(%.0f) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(samplePage(), map[string]float64{"1": 2100000}))

	out := buf.String()
	for _, want := range []string{"PROPERTY PRICE SUMMARY", "R2 000 000", "Villa A", "Vacant Land", "Since Previous Run"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
