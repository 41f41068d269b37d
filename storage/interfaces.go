package storage

import "property-tracker/models"

// ListingWriter is the interface any listings backend must satisfy.
type ListingWriter interface {
	WriteListings(listings []*models.PropertyListing) error
}

// SaleWriter is the interface for persisting recent sale records.
type SaleWriter interface {
	WriteSales(records []*models.SaleRecord) error
}
