package services

import (
	"testing"

	"funda-scraper/models"
)

func sampleSections() []models.RawSection {
	return []models.RawSection{
		{
			ID: SectionConstruction,
			Fields: []models.RawField{
				{ID: FieldYearBuilt, Label: "Bouwjaar", Value: "1932"},
				{ID: FieldConstructionType, Label: "Soort bouw", Value: "Bestaande bouw"},
			},
		},
		{
			ID: SectionAreas,
			Fields: []models.RawField{
				{Label: "Gebruiksoppervlakten", Value: ""},
			},
			Sections: []models.RawSection{
				{
					ID: "gebruiksoppervlakten",
					Fields: []models.RawField{
						{ID: FieldLivingArea, Label: "Wonen", Value: "120 m²"},
					},
					Sections: []models.RawSection{
						{
							ID: "buitenruimtes",
							Fields: []models.RawField{
								{ID: FieldPlotArea, Label: "Perceel", Value: "210 m²"},
							},
						},
					},
				},
			},
		},
	}
}

func TestResolveAttributeTopLevel(t *testing.T) {
	v, ok := ResolveAttribute(sampleSections(), SectionConstruction, FieldYearBuilt)
	if !ok || v != "1932" {
		t.Errorf("ResolveAttribute(bouw, bouwjaar) = %q, %v; want %q, true", v, ok, "1932")
	}
}

func TestResolveAttributeNested(t *testing.T) {
	sections := sampleSections()

	// One level down.
	v, ok := ResolveAttribute(sections, SectionAreas, FieldLivingArea)
	if !ok || v != "120 m²" {
		t.Errorf("living area = %q, %v; want %q, true", v, ok, "120 m²")
	}

	// Two levels down.
	v, ok = ResolveAttribute(sections, SectionAreas, FieldPlotArea)
	if !ok || v != "210 m²" {
		t.Errorf("plot area = %q, %v; want %q, true", v, ok, "210 m²")
	}
}

func TestResolveAttributeAbsent(t *testing.T) {
	sections := sampleSections()

	tests := []struct {
		name      string
		sectionID string
		fieldID   string
	}{
		{"unknown section", SectionEnergy, FieldEnergyLabel},
		{"unknown field", SectionConstruction, FieldParkingType},
		{"field only present in another section", SectionConstruction, FieldLivingArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, ok := ResolveAttribute(sections, tt.sectionID, tt.fieldID); ok {
				t.Errorf("got %q, want absent", v)
			}
		})
	}

	if _, ok := ResolveAttribute(nil, SectionConstruction, FieldYearBuilt); ok {
		t.Error("nil tree should resolve to absent")
	}
}

func TestResolveAttributeEmptyValueIsAbsent(t *testing.T) {
	sections := []models.RawSection{{
		ID:     SectionEnergy,
		Fields: []models.RawField{{ID: FieldEnergyLabel, Label: "Energielabel", Value: ""}},
	}}

	if v, ok := ResolveAttribute(sections, SectionEnergy, FieldEnergyLabel); ok {
		t.Errorf("empty value should be absent, got %q", v)
	}
}

func TestResolveAttributeFirstMatchWins(t *testing.T) {
	sections := []models.RawSection{
		{
			ID: SectionLayout,
			Fields: []models.RawField{
				{ID: FieldRooms, Label: "Aantal kamers", Value: "5"},
			},
			Sections: []models.RawSection{{
				ID: "verdieping",
				Fields: []models.RawField{
					{ID: FieldRooms, Label: "Aantal kamers", Value: "3"},
				},
			}},
		},
		// Duplicate section id: must be ignored entirely.
		{
			ID: SectionLayout,
			Fields: []models.RawField{
				{ID: FieldRooms, Label: "Aantal kamers", Value: "99"},
			},
		},
	}

	v, ok := ResolveAttribute(sections, SectionLayout, FieldRooms)
	if !ok || v != "5" {
		t.Errorf("duplicate ids: got %q, %v; want %q (first match)", v, ok, "5")
	}
}

func TestResolveAttributeDeterministic(t *testing.T) {
	sections := sampleSections()

	first, ok1 := ResolveAttribute(sections, SectionAreas, FieldPlotArea)
	second, ok2 := ResolveAttribute(sections, SectionAreas, FieldPlotArea)
	if first != second || ok1 != ok2 {
		t.Errorf("repeated resolve differs: (%q,%v) vs (%q,%v)", first, ok1, second, ok2)
	}
}

func TestFlattenFieldsOrder(t *testing.T) {
	sec := sampleSections()[1]
	flat := FlattenFields(sec)

	if len(flat) != 3 {
		t.Fatalf("flattened length: got %d, want 3", len(flat))
	}
	// Parent fields first, then descendants depth-first.
	if flat[0].Label != "Gebruiksoppervlakten" || flat[1].ID != FieldLivingArea || flat[2].ID != FieldPlotArea {
		t.Errorf("unexpected flatten order: %+v", flat)
	}
}
