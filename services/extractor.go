package services

import "funda-scraper/models"

// Characteristic section ids as published in the funda kenmerken tree.
const (
	SectionTransfer     = "overdracht"
	SectionConstruction = "bouw"
	SectionAreas        = "oppervlakten-en-inhoud"
	SectionLayout       = "indeling"
	SectionEnergy       = "energie"
	SectionOutdoor      = "buitenruimte"
	SectionParking      = "parkeergelegenheid"
)

// Field ids inside those sections.
const (
	FieldPricePerM2       = "vraagprijs-per-m2"
	FieldPropertySubtype  = "soort-woonhuis"
	FieldConstructionType = "soort-bouw"
	FieldYearBuilt        = "bouwjaar"
	FieldLivingArea       = "wonen"
	FieldPlotArea         = "perceel"
	FieldRooms            = "aantal-kamers"
	FieldBedrooms         = "aantal-slaapkamers"
	FieldBathrooms        = "aantal-badkamers"
	FieldEnergyLabel      = "energielabel"
	FieldParkingType      = "soort-parkeergelegenheid"
)

// ResolveAttribute looks up a single characteristic value by section and
// field id. The section list order is the precedence order: the first
// section whose id matches is flattened (its own fields first, then those
// of descendant sections, depth-first) and scanned for the first field
// with the requested id. Missing sections, missing fields and empty
// values all report absence rather than an error.
func ResolveAttribute(sections []models.RawSection, sectionID, fieldID string) (string, bool) {
	for _, sec := range sections {
		if sec.ID != sectionID {
			continue
		}
		for _, f := range FlattenFields(sec) {
			if f.ID != fieldID {
				continue
			}
			if f.Value == "" {
				return "", false
			}
			return f.Value, true
		}
		return "", false
	}
	return "", false
}

// FlattenFields collapses a section tree into one ordered field sequence,
// depth-first, parent fields ahead of child-section fields.
func FlattenFields(sec models.RawSection) []models.RawField {
	out := make([]models.RawField, 0, len(sec.Fields))
	out = append(out, sec.Fields...)
	for _, child := range sec.Sections {
		out = append(out, FlattenFields(child)...)
	}
	return out
}
