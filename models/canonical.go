package models

import "time"

// PropertyType is the canonical, portal-agnostic property category.
type PropertyType string

const (
	PropertyApartment       PropertyType = "apartment"
	PropertyHouse           PropertyType = "house"
	PropertyVilla           PropertyType = "villa"
	PropertyBungalow        PropertyType = "bungalow"
	PropertyStudio          PropertyType = "studio"
	PropertyRoom            PropertyType = "room"
	PropertyLand            PropertyType = "land"
	PropertyNewConstruction PropertyType = "new-construction"
	PropertyFarm            PropertyType = "farm"
	PropertyGeneric         PropertyType = "property"
)

// Transaction is the kind of deal a listing offers.
type Transaction string

const (
	TransactionSale    Transaction = "sale"
	TransactionRent    Transaction = "rent"
	TransactionUnknown Transaction = "unknown"
)

// Status is the derived lifecycle state of a listing.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
	StatusRented Status = "rented"
)

// Extension-bag keys. Market-specific facts without a universal slot are
// stored under these keys; a key is only present when the source fact is.
const (
	ExtraTypeLabel        = "property_type_original"
	ExtraConstructionType = "construction_type"
	ExtraParkingType      = "parking_type"
	ExtraRegion           = "region"
	ExtraEnergyLabel      = "energy_label"
	ExtraPlotArea         = "plot_area"
	ExtraPricePerM2Raw    = "price_per_m2_raw"
	ExtraViewCount        = "view_count"
	ExtraSaveCount        = "save_count"
	ExtraPublishedDate    = "published_date"
)

// CanonicalRecord is the normalized listing ready for storage and export.
// Optional fields are nil when the source carried no usable value.
type CanonicalRecord struct {
	TinyID   string
	GlobalID string

	PropertyType PropertyType
	Transaction  Transaction

	Street     string
	PostalCode string
	City       string
	Latitude   *float64
	Longitude  *float64

	Price      *float64
	Currency   string
	PricePerM2 *float64

	LivingArea *float64
	Rooms      *int
	Bedrooms   *int
	Bathrooms  *int
	YearBuilt  *int

	ImageURLs []string

	PublishedAt  *time.Time
	SoldOrRented bool
	Status       Status

	Extras map[string]any

	FetchedAt time.Time
}

// BatchResult accumulates the outcome of one batch invocation.
type BatchResult struct {
	Records   []*CanonicalRecord
	FailedIDs []string
	Requests  int
	Elapsed   time.Duration
}

// Rate returns processed listings per minute over the batch so far.
func (r *BatchResult) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Elapsed.Minutes()
}

// InsightReport holds the computed analytics over the normalized dataset.
type InsightReport struct {
	TotalRecords  int
	ActiveCount   int
	SoldCount     int
	RentedCount   int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	AvgPricePerM2 float64
	MostExpensive *CanonicalRecord
	RecordsByCity map[string]int
	RecordsByType map[PropertyType]int
}
