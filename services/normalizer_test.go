package services

import (
	"reflect"
	"testing"
	"time"

	"funda-scraper/models"
	"funda-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func intPtr(i int) *int { return &i }

func sampleRawRecord() *models.RawRecord {
	return &models.RawRecord{
		TinyID:        "43521098",
		GlobalID:      "7153042",
		TypeLabel:     "Eengezinswoning",
		GenericType:   "woonhuis",
		Transaction:   "koop",
		Street:        "Dorpsstraat 12",
		PostalCode:    "1234 AB",
		City:          "Utrecht",
		Province:      "Utrecht",
		PriceText:     "€ 450.000 k.k.",
		ImageURLs:     []string{"https://cloud.funda.nl/foto/1.jpg", "https://cloud.funda.nl/foto/2.jpg"},
		PublishedText: "2024-03-18",
		SoldOrRented:  true,
		ViewCount:     intPtr(1532),
		SaveCount:     intPtr(87),
		FetchedAt:     time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
		Sections: []models.RawSection{
			{
				ID: SectionTransfer,
				Fields: []models.RawField{
					{ID: "vraagprijs", Label: "Vraagprijs", Value: "€ 450.000 kosten koper"},
					{ID: FieldPricePerM2, Label: "Vraagprijs per m²", Value: "€ 3.750"},
				},
			},
			{
				ID: SectionConstruction,
				Fields: []models.RawField{
					{ID: FieldPropertySubtype, Label: "Soort woonhuis", Value: "Eengezinswoning"},
					{ID: FieldConstructionType, Label: "Soort bouw", Value: "Bestaande bouw"},
					{ID: FieldYearBuilt, Label: "Bouwjaar", Value: "1978"},
				},
			},
			{
				ID: SectionAreas,
				Fields: []models.RawField{
					{ID: FieldLivingArea, Label: "Wonen", Value: "120 m²"},
					{ID: FieldPlotArea, Label: "Perceel", Value: "185 m²"},
				},
			},
			{
				ID: SectionLayout,
				Fields: []models.RawField{
					{ID: FieldRooms, Label: "Aantal kamers", Value: "5 kamers (4 slaapkamers)"},
					{ID: FieldBedrooms, Label: "Aantal slaapkamers", Value: "4"},
					{ID: FieldBathrooms, Label: "Aantal badkamers", Value: "1"},
				},
			},
			{
				ID: SectionEnergy,
				Fields: []models.RawField{
					{ID: FieldEnergyLabel, Label: "Energielabel", Value: "C"},
				},
			},
			{
				ID: SectionParking,
				Fields: []models.RawField{
					{ID: FieldParkingType, Label: "Soort parkeergelegenheid", Value: "Op eigen terrein"},
				},
			},
		},
	}
}

func TestNormalizeSoldHouse(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	rec := n.Normalize(sampleRawRecord())

	if rec.PropertyType != models.PropertyHouse {
		t.Errorf("PropertyType: got %q, want %q", rec.PropertyType, models.PropertyHouse)
	}
	if rec.Transaction != models.TransactionSale {
		t.Errorf("Transaction: got %q, want %q", rec.Transaction, models.TransactionSale)
	}
	if rec.Price == nil || *rec.Price != 450000 {
		t.Errorf("Price: got %v, want 450000", rec.Price)
	}
	if rec.Currency != "EUR" {
		t.Errorf("Currency: got %q, want EUR", rec.Currency)
	}
	if rec.PricePerM2 == nil || *rec.PricePerM2 != 3750 {
		t.Errorf("PricePerM2: got %v, want 3750", rec.PricePerM2)
	}
	if rec.LivingArea == nil || *rec.LivingArea != 120 {
		t.Errorf("LivingArea: got %v, want 120", rec.LivingArea)
	}
	if rec.Rooms == nil || *rec.Rooms != 5 {
		t.Errorf("Rooms: got %v, want 5", rec.Rooms)
	}
	if rec.Bedrooms == nil || *rec.Bedrooms != 4 {
		t.Errorf("Bedrooms: got %v, want 4", rec.Bedrooms)
	}
	if rec.Bathrooms == nil || *rec.Bathrooms != 1 {
		t.Errorf("Bathrooms: got %v, want 1", rec.Bathrooms)
	}
	if rec.YearBuilt == nil || *rec.YearBuilt != 1978 {
		t.Errorf("YearBuilt: got %v, want 1978", rec.YearBuilt)
	}
	if rec.Status != models.StatusSold {
		t.Errorf("Status: got %q, want %q", rec.Status, models.StatusSold)
	}
	if rec.PublishedAt == nil || rec.PublishedAt.Format("2006-01-02") != "2024-03-18" {
		t.Errorf("PublishedAt: got %v, want 2024-03-18", rec.PublishedAt)
	}
}

func TestNormalizeExtensionBag(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	rec := n.Normalize(sampleRawRecord())

	want := map[string]any{
		models.ExtraTypeLabel:        "Eengezinswoning",
		models.ExtraConstructionType: "Bestaande bouw",
		models.ExtraParkingType:      "Op eigen terrein",
		models.ExtraRegion:           "Utrecht",
		models.ExtraEnergyLabel:      "C",
		models.ExtraPlotArea:         float64(185),
		models.ExtraPricePerM2Raw:    "€ 3.750",
		models.ExtraViewCount:        1532,
		models.ExtraSaveCount:        87,
		models.ExtraPublishedDate:    "2024-03-18",
	}

	if !reflect.DeepEqual(rec.Extras, want) {
		t.Errorf("Extras:\n got %#v\nwant %#v", rec.Extras, want)
	}
}

func TestNormalizeRentedApartment(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawRecord{
		TinyID:       "88990011",
		TypeLabel:    "Bovenwoning",
		Transaction:  "huur",
		City:         "Amsterdam",
		PriceText:    "€ 1.850 per maand",
		SoldOrRented: true,
	}
	rec := n.Normalize(raw)

	if rec.PropertyType != models.PropertyApartment {
		t.Errorf("PropertyType: got %q, want %q", rec.PropertyType, models.PropertyApartment)
	}
	if rec.Transaction != models.TransactionRent {
		t.Errorf("Transaction: got %q, want %q", rec.Transaction, models.TransactionRent)
	}
	if rec.Price == nil || *rec.Price != 1850 {
		t.Errorf("Price: got %v, want 1850", rec.Price)
	}
	if rec.Status != models.StatusRented {
		t.Errorf("Status: got %q, want %q", rec.Status, models.StatusRented)
	}
}

func TestNormalizeSparseRecord(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	rec := n.Normalize(&models.RawRecord{TinyID: "11112222"})

	if rec.PropertyType != models.PropertyGeneric {
		t.Errorf("PropertyType: got %q, want %q", rec.PropertyType, models.PropertyGeneric)
	}
	if rec.Transaction != models.TransactionUnknown {
		t.Errorf("Transaction: got %q, want %q", rec.Transaction, models.TransactionUnknown)
	}
	if rec.Status != models.StatusActive {
		t.Errorf("Status: got %q, want %q", rec.Status, models.StatusActive)
	}
	if rec.Price != nil || rec.PricePerM2 != nil || rec.LivingArea != nil ||
		rec.Rooms != nil || rec.YearBuilt != nil || rec.PublishedAt != nil {
		t.Error("all optional fields should be absent for a sparse record")
	}
	if len(rec.Extras) != 0 {
		t.Errorf("Extras should be empty, got %#v", rec.Extras)
	}
}

// No price-per-area characteristic present: the universal field stays
// absent and the raw key never enters the extension bag.
func TestNormalizeMissingPricePerM2(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := sampleRawRecord()
	raw.Sections = raw.Sections[1:] // drop the transfer section

	rec := n.Normalize(raw)
	if rec.PricePerM2 != nil {
		t.Errorf("PricePerM2: got %v, want absent", rec.PricePerM2)
	}
	if _, ok := rec.Extras[models.ExtraPricePerM2Raw]; ok {
		t.Error("extension bag should not carry price_per_m2_raw when the section is missing")
	}
}

func TestNormalizeMalformedNumbersDegradeToAbsent(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := &models.RawRecord{
		TinyID:    "33334444",
		PriceText: "Prijs op aanvraag",
		Sections: []models.RawSection{{
			ID: SectionConstruction,
			Fields: []models.RawField{
				{ID: FieldYearBuilt, Label: "Bouwjaar", Value: "onbekend"},
			},
		}},
	}
	rec := n.Normalize(raw)

	if rec.Price != nil {
		t.Errorf("unparsable price: got %v, want absent", rec.Price)
	}
	if rec.YearBuilt != nil {
		t.Errorf("unparsable year: got %v, want absent", rec.YearBuilt)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	first := n.Normalize(sampleRawRecord())
	second := n.Normalize(sampleRawRecord())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize is not idempotent:\n first %#v\nsecond %#v", first, second)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		absent bool
	}{
		{"€ 450.000 k.k.", 450000, false},
		{"€ 1.850 per maand", 1850, false},
		{"120 m²", 120, false},
		{"7.250,50", 7250.50, false},
		{"€ 3.750", 3750, false},
		{"", 0, true},
		{"Prijs op aanvraag", 0, true},
	}

	for _, tt := range tests {
		got := parseNumber(tt.raw)
		if tt.absent {
			if got != nil {
				t.Errorf("parseNumber(%q) = %v; want absent", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseNumber(%q) = %v; want %.2f", tt.raw, got, tt.want)
		}
	}
}
