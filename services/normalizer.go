package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"funda-scraper/models"
	"funda-scraper/utils"
)

// numberRegexp captures the first numeric token of a locale-formatted
// value, thousands separators and decimal comma included.
var numberRegexp = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Normalizer converts RawRecords into portal-agnostic CanonicalRecords.
// Normalize is total: whatever the raw record looks like, a canonical
// record comes out, with unavailable attributes left absent.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize assembles the canonical record for one raw listing. The same
// raw input always yields a structurally identical result.
func (n *Normalizer) Normalize(raw *models.RawRecord) *models.CanonicalRecord {
	rec := &models.CanonicalRecord{
		TinyID:       raw.TinyID,
		GlobalID:     raw.GlobalID,
		PropertyType: ClassifyPropertyType(raw.TypeLabel, raw.GenericType),
		Transaction:  parseTransaction(raw.Transaction),
		Street:       normaliseText(raw.Street),
		PostalCode:   normaliseText(raw.PostalCode),
		City:         normaliseText(raw.City),
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		Price:        parseNumber(raw.PriceText),
		Currency:     raw.Currency,
		ImageURLs:    raw.ImageURLs,
		SoldOrRented: raw.SoldOrRented,
		Extras:       make(map[string]any),
		FetchedAt:    raw.FetchedAt,
	}

	if rec.Price != nil && rec.Currency == "" {
		rec.Currency = "EUR"
	}

	if v, ok := ResolveAttribute(raw.Sections, SectionTransfer, FieldPricePerM2); ok {
		rec.PricePerM2 = parseNumber(v)
		rec.Extras[models.ExtraPricePerM2Raw] = v
	}
	if v, ok := ResolveAttribute(raw.Sections, SectionAreas, FieldLivingArea); ok {
		rec.LivingArea = parseNumber(v)
	}
	rec.Rooms = resolveCount(raw.Sections, SectionLayout, FieldRooms)
	rec.Bedrooms = resolveCount(raw.Sections, SectionLayout, FieldBedrooms)
	rec.Bathrooms = resolveCount(raw.Sections, SectionLayout, FieldBathrooms)
	rec.YearBuilt = resolveCount(raw.Sections, SectionConstruction, FieldYearBuilt)

	rec.PublishedAt = parseDate(raw.PublishedText)

	if rec.SoldOrRented {
		if rec.Transaction == models.TransactionRent {
			rec.Status = models.StatusRented
		} else {
			rec.Status = models.StatusSold
		}
	} else {
		rec.Status = models.StatusActive
	}

	n.fillExtras(raw, rec)

	n.logger.Debug("[normalizer] %s → type=%s status=%s extras=%d",
		raw.TinyID, rec.PropertyType, rec.Status, len(rec.Extras))
	return rec
}

// fillExtras copies every market-specific fact with a value into the
// extension bag. Absent facts get no key at all.
func (n *Normalizer) fillExtras(raw *models.RawRecord, rec *models.CanonicalRecord) {
	putText := func(key, v string) {
		if v = normaliseText(v); v != "" {
			rec.Extras[key] = v
		}
	}

	putText(models.ExtraTypeLabel, raw.TypeLabel)
	putText(models.ExtraRegion, raw.Province)
	putText(models.ExtraPublishedDate, raw.PublishedText)

	if v, ok := ResolveAttribute(raw.Sections, SectionConstruction, FieldConstructionType); ok {
		putText(models.ExtraConstructionType, v)
	}
	if v, ok := ResolveAttribute(raw.Sections, SectionParking, FieldParkingType); ok {
		putText(models.ExtraParkingType, v)
	}
	if v, ok := ResolveAttribute(raw.Sections, SectionEnergy, FieldEnergyLabel); ok {
		putText(models.ExtraEnergyLabel, v)
	}
	if v, ok := ResolveAttribute(raw.Sections, SectionAreas, FieldPlotArea); ok {
		if f := parseNumber(v); f != nil {
			rec.Extras[models.ExtraPlotArea] = *f
		} else {
			putText(models.ExtraPlotArea, v)
		}
	}

	if raw.ViewCount != nil {
		rec.Extras[models.ExtraViewCount] = *raw.ViewCount
	}
	if raw.SaveCount != nil {
		rec.Extras[models.ExtraSaveCount] = *raw.SaveCount
	}
}

// parseNumber applies the locale coercion policy: drop currency symbols,
// units and whitespace, treat dots as thousands separators and a comma as
// the decimal mark. Unparsable input degrades to absent.
// Examples:
//
//	"€ 450.000 k.k." → 450000
//	"120 m²"         → 120
//	"7.250,50"       → 7250.5
func parseNumber(raw string) *float64 {
	match := numberRegexp.FindString(raw)
	if match == "" {
		return nil
	}
	cleaned := strings.ReplaceAll(match, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// resolveCount resolves a characteristic and coerces it to a whole number.
func resolveCount(sections []models.RawSection, sectionID, fieldID string) *int {
	v, ok := ResolveAttribute(sections, sectionID, fieldID)
	if !ok {
		return nil
	}
	f := parseNumber(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// parseTransaction maps the source's deal wording onto a canonical kind.
func parseTransaction(raw string) models.Transaction {
	switch s := strings.ToLower(raw); {
	case strings.Contains(s, "huur"), strings.Contains(s, "rent"):
		return models.TransactionRent
	case strings.Contains(s, "koop"), strings.Contains(s, "sale"):
		return models.TransactionSale
	default:
		return models.TransactionUnknown
	}
}

// parseDate accepts the publication formats the source is known to emit.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
