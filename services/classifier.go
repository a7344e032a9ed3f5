package services

import (
	"strings"

	"funda-scraper/models"
)

// taxonomyRow maps locale substrings onto one canonical category.
type taxonomyRow struct {
	terms []string
	kind  models.PropertyType
}

// taxonomy is scanned top to bottom, first hit wins. Row order is the
// tie-break: dwelling terms sit above garden/land terms on purpose, so
// "woning met tuin" classifies as a house rather than land.
var taxonomy = []taxonomyRow{
	{[]string{"appartement", "flat", "penthouse", "maisonnette", "bovenwoning", "benedenwoning", "portiek"}, models.PropertyApartment},
	{[]string{"woning", "huis"}, models.PropertyHouse},
	{[]string{"villa"}, models.PropertyVilla},
	{[]string{"bungalow"}, models.PropertyBungalow},
	{[]string{"studio"}, models.PropertyStudio},
	{[]string{"kamer"}, models.PropertyRoom},
	{[]string{"tuin", "grond", "perceel", "kavel"}, models.PropertyLand},
	{[]string{"nieuwbouw"}, models.PropertyNewConstruction},
	{[]string{"boerderij"}, models.PropertyFarm},
}

// ClassifyPropertyType maps the source's free-text type labels onto the
// canonical category set. Both labels may be empty; unrecognized input
// falls through to the generic category. Never fails.
func ClassifyPropertyType(typeLabel, genericLabel string) models.PropertyType {
	text := strings.ToLower(typeLabel + " " + genericLabel)
	for _, row := range taxonomy {
		for _, term := range row.terms {
			if strings.Contains(text, term) {
				return row.kind
			}
		}
	}
	return models.PropertyGeneric
}
