package models

import "time"

// RawField is a single characteristic inside a section. ID may be empty —
// the source does not assign an id to every field. Label and Value carry
// the locale-formatted text exactly as delivered.
type RawField struct {
	ID    string
	Label string
	Value string
}

// RawSection is a named group of characteristic fields. Sections nest
// arbitrarily; in practice funda trees are at most four levels deep.
// Trees are read-only after the fetch that produced them.
type RawSection struct {
	ID       string
	Title    string
	Fields   []RawField
	Sections []RawSection
}

// RawRecord is the unprocessed listing payload: the top-level facts plus
// the nested characteristic tree ("kenmerken").
type RawRecord struct {
	TinyID   string
	GlobalID string

	TypeLabel   string // locale-specific subtype, e.g. "Eengezinswoning"
	GenericType string // coarse source bucket, e.g. "woonhuis"
	Transaction string // "koop" / "huur" as published by the source

	Street     string
	PostalCode string
	City       string
	Province   string
	Latitude   *float64
	Longitude  *float64

	PriceText string // e.g. "€ 450.000 k.k."
	Currency  string

	ImageURLs []string

	PublishedText string
	SoldOrRented  bool

	ViewCount *int
	SaveCount *int

	Sections []RawSection

	FetchedAt time.Time
}
