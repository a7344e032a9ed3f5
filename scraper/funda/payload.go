package funda

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"funda-scraper/models"
)

// ErrEmptyPayload is returned when a page carries no usable listing state.
var ErrEmptyPayload = errors.New("listing payload is empty")

// listingPayload mirrors the embedded JSON state of a listing detail page.
type listingPayload struct {
	TinyID         string           `json:"tinyId"`
	GlobalID       string           `json:"globalId"`
	ObjectType     string           `json:"objectType"`
	ObjectCategory string           `json:"objectCategory"`
	OfferType      string           `json:"offerType"`
	Address        payloadAddress   `json:"address"`
	Price          payloadPrice     `json:"price"`
	Media          []payloadMedia   `json:"media"`
	PublishDate    string           `json:"publishDate"`
	IsSoldOrRented bool             `json:"isSoldOrRented"`
	Statistics     *payloadStats    `json:"statistics"`
	Kenmerken      []payloadSection `json:"kenmerken"`
}

type payloadAddress struct {
	Street     string   `json:"street"`
	PostalCode string   `json:"postalCode"`
	City       string   `json:"city"`
	Province   string   `json:"province"`
	Latitude   *float64 `json:"lat"`
	Longitude  *float64 `json:"lng"`
}

type payloadPrice struct {
	Text     string `json:"text"`
	Currency string `json:"currency"`
}

type payloadMedia struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type payloadStats struct {
	Views *int `json:"nrOfViews"`
	Saves *int `json:"nrOfSaves"`
}

type payloadSection struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Fields   []payloadField   `json:"kenmerkenList"`
	Sections []payloadSection `json:"subSections"`
}

type payloadField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// decodeListingPayload unmarshals the embedded page state and rejects
// payloads that identify no listing at all.
func decodeListingPayload(data []byte) (*listingPayload, error) {
	var p listingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode listing payload: %w", err)
	}
	if p.TinyID == "" && p.GlobalID == "" {
		return nil, ErrEmptyPayload
	}
	return &p, nil
}

// toRawRecord converts the source payload into the pipeline's raw record.
func toRawRecord(p *listingPayload, fetchedAt time.Time) *models.RawRecord {
	raw := &models.RawRecord{
		TinyID:        p.TinyID,
		GlobalID:      p.GlobalID,
		TypeLabel:     p.ObjectType,
		GenericType:   p.ObjectCategory,
		Transaction:   p.OfferType,
		Street:        p.Address.Street,
		PostalCode:    p.Address.PostalCode,
		City:          p.Address.City,
		Province:      p.Address.Province,
		Latitude:      p.Address.Latitude,
		Longitude:     p.Address.Longitude,
		PriceText:     p.Price.Text,
		Currency:      p.Price.Currency,
		PublishedText: p.PublishDate,
		SoldOrRented:  p.IsSoldOrRented,
		Sections:      toRawSections(p.Kenmerken),
		FetchedAt:     fetchedAt,
	}

	for _, m := range p.Media {
		if m.URL != "" && (m.Kind == "" || m.Kind == "photo") {
			raw.ImageURLs = append(raw.ImageURLs, m.URL)
		}
	}

	if p.Statistics != nil {
		raw.ViewCount = p.Statistics.Views
		raw.SaveCount = p.Statistics.Saves
	}

	return raw
}

func toRawSections(in []payloadSection) []models.RawSection {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.RawSection, 0, len(in))
	for _, s := range in {
		sec := models.RawSection{
			ID:       s.ID,
			Title:    s.Title,
			Sections: toRawSections(s.Sections),
		}
		for _, f := range s.Fields {
			sec.Fields = append(sec.Fields, models.RawField{
				ID:    f.ID,
				Label: f.Label,
				Value: f.Value,
			})
		}
		out = append(out, sec)
	}
	return out
}
