package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"property-tracker/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func ptr(s string) *string { return &s }

func TestNewCSVWriterWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w, err := NewCSVWriter(path, ListingColumns)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.WriteListings(nil); err != nil {
		t.Fatalf("WriteListings(nil): %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want header only", len(rows))
	}
	if len(rows[0]) != 15 || rows[0][0] != "price" || rows[0][14] != "recent_sales_date" {
		t.Errorf("header: got %v", rows[0])
	}
}

func TestNewCSVWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("stale,data\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSVWriter(path, SaleColumns); err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 1 || rows[0][0] != "address" {
		t.Errorf("got %v, want the sales header only", rows)
	}
}

func TestWriteListingsAppendsAllColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewCSVWriter(path, ListingColumns)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	full := &models.PropertyListing{
		Price: 1250000, Description: "Family home, big garden", Bedrooms: ptr("3"), Bathrooms: ptr("2"),
		Parking: ptr("1"), Pool: true, ListingNumber: "114011111", PropertyType: "House",
		ListingDate: "12 October 2026", ErfSize: ptr("m²"), FloorSize: ptr("m²"), Flatlet: true,
		RecentSale: &models.RecentSale{Address: "12 Oak Street", Price: 980000, Date: "March 2019"},
	}
	bare := &models.PropertyListing{
		Price: 850.5, Description: "Stand", ListingNumber: "2", PropertyType: "Vacant Land", ListingDate: "today",
	}

	if err := w.WriteListings([]*models.PropertyListing{full}); err != nil {
		t.Fatalf("WriteListings: %v", err)
	}
	if err := w.WriteListings([]*models.PropertyListing{bare}); err != nil {
		t.Fatalf("WriteListings: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}

	wantFull := []string{"1250000", "Family home, big garden", "3", "2", "1", "true", "114011111", "House",
		"12 October 2026", "m²", "m²", "true", "12 Oak Street", "980000", "March 2019"}
	wantBare := []string{"850.5", "Stand", "", "", "", "false", "2", "Vacant Land",
		"today", "", "", "false", "", "", ""}

	for i, want := range [][]string{wantFull, wantBare} {
		got := rows[i+1]
		if len(got) != len(want) {
			t.Fatalf("row %d: got %d columns, want %d", i+1, len(got), len(want))
		}
		for c := range want {
			if got[c] != want[c] {
				t.Errorf("row %d column %s: got %q, want %q", i+1, ListingColumns[c], got[c], want[c])
			}
		}
	}
}

func TestWriteSales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	w, err := NewCSVWriter(path, SaleColumns)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	err = w.WriteSales([]*models.SaleRecord{
		{Address: "4 Bluegum Avenue", LastSoldPrice: 1100000, LastSoldDate: "June 2024"},
		{Address: "9 Protea Close", LastSoldPrice: 1675500, LastSoldDate: "January 2025"},
	})
	if err != nil {
		t.Fatalf("WriteSales: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[2][0] != "9 Protea Close" || rows[2][1] != "1675500" || rows[2][2] != "January 2025" {
		t.Errorf("row 2: got %v", rows[2])
	}
}

func TestWriteAfterFileRemovedFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewCSVWriter(path, SaleColumns)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSales([]*models.SaleRecord{{Address: "a"}}); err == nil {
		t.Error("append to a removed file should fail rather than recreate it without a header")
	}
}
