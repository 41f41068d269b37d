package property24

// CSS selectors for property24 markup. Every lookup inside a tile takes the
// first match in document order.
const (
	// Search results page
	TileSelector          = "div.p24_regularTile"
	PriceSelector         = "div.p24_price"
	DescriptionSelector   = "span.p24_content"
	BedroomsSelector      = `span[title="Bedrooms"]`
	BathroomsSelector     = `span[title="Bathrooms"]`
	ParkingSelector       = `span[title="Parking Spaces"]`
	PoolSelector          = `span[title="Pool"]`
	PropertyTypeSelector  = "div.p24_propertyType"
	ListingDateSelector   = "div.p24_listingDate"
	FeatureDetailSelector = "span.p24_featureDetails"
	ListingNumberAttr     = "data-listing-number"

	// Recent-sale block inside a tile, and items on a recent-sales page
	RecentListingSelector   = "div.p24_recentListing"
	RecentSalesItemSelector = "div.p24_recentSalesItem"
	LocationSelector        = "div.p24_location"
)

// Detail line markers, checked in this order.
const (
	erfSizeMarker   = "Erf Size"
	floorSizeMarker = "Floor Size"
	flatletMarker   = "Flatlet"
)
