package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"funda-scraper/models"
)

// csvHeader is the canonical CSV schema. Universal fields get their own
// column; the extension bag is serialized as one JSON column.
var csvHeader = []string{
	"listing_id", "global_id", "property_type", "transaction",
	"street", "postal_code", "city", "latitude", "longitude",
	"price", "currency", "price_per_m2", "living_area",
	"rooms", "bedrooms", "bathrooms", "year_built",
	"status", "published_at", "image_urls", "extras", "fetched_at",
}

// CSVWriter writes canonical records to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends all given records to the CSV file.
func (c *CSVWriter) Write(records []*models.CanonicalRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		extras, err := json.Marshal(r.Extras)
		if err != nil {
			return fmt.Errorf("csv: marshal extras for %s: %w", r.TinyID, err)
		}

		row := []string{
			r.TinyID,
			r.GlobalID,
			string(r.PropertyType),
			string(r.Transaction),
			r.Street,
			r.PostalCode,
			r.City,
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			formatFloat(r.Price),
			r.Currency,
			formatFloat(r.PricePerM2),
			formatFloat(r.LivingArea),
			formatInt(r.Rooms),
			formatInt(r.Bedrooms),
			formatInt(r.Bathrooms),
			formatInt(r.YearBuilt),
			string(r.Status),
			formatTime(r.PublishedAt),
			strings.Join(r.ImageURLs, " "),
			string(extras),
			r.FetchedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
