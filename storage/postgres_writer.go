package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"funda-scraper/models"
)

// insertCols is the column list for batched inserts, in placeholder order.
var insertCols = []string{
	"listing_id", "global_id", "property_type", "transaction",
	"street", "postal_code", "city", "latitude", "longitude",
	"price", "currency", "price_per_m2", "living_area",
	"rooms", "bedrooms", "bathrooms", "year_built",
	"status", "sold_or_rented", "published_at", "image_urls", "extras", "fetched_at",
}

// PostgresWriter persists canonical records to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id             SERIAL PRIMARY KEY,
			listing_id     VARCHAR(32) UNIQUE NOT NULL,
			global_id      VARCHAR(32)  NOT NULL DEFAULT '',
			property_type  VARCHAR(32)  NOT NULL,
			transaction    VARCHAR(16)  NOT NULL,
			street         TEXT         NOT NULL DEFAULT '',
			postal_code    VARCHAR(16)  NOT NULL DEFAULT '',
			city           TEXT         NOT NULL DEFAULT '',
			latitude       DOUBLE PRECISION,
			longitude      DOUBLE PRECISION,
			price          NUMERIC(12,2),
			currency       VARCHAR(8)   NOT NULL DEFAULT '',
			price_per_m2   NUMERIC(12,2),
			living_area    NUMERIC(10,2),
			rooms          INTEGER,
			bedrooms       INTEGER,
			bathrooms      INTEGER,
			year_built     INTEGER,
			status         VARCHAR(16)  NOT NULL,
			sold_or_rented BOOLEAN      NOT NULL DEFAULT FALSE,
			published_at   TIMESTAMPTZ,
			image_urls     TEXT[]       NOT NULL DEFAULT '{}',
			extras         JSONB        NOT NULL DEFAULT '{}',
			fetched_at     TIMESTAMPTZ  NOT NULL,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_city   ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_type   ON listings(property_type);
		CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
		CREATE INDEX IF NOT EXISTS idx_listings_price  ON listings(price);
	`)
	return err
}

// Write batch-inserts the records, skipping listings already stored.
func (pw *PostgresWriter) Write(records []*models.CanonicalRecord) error {
	if len(records) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.CanonicalRecord) error {
	n := len(insertCols)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, r := range batch {
		extras, err := json.Marshal(r.Extras)
		if err != nil {
			return fmt.Errorf("postgres: marshal extras for %s: %w", r.TinyID, err)
		}

		placeholders := make([]string, n)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*n+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.TinyID, r.GlobalID, string(r.PropertyType), string(r.Transaction),
			r.Street, r.PostalCode, r.City, r.Latitude, r.Longitude,
			r.Price, r.Currency, r.PricePerM2, r.LivingArea,
			r.Rooms, r.Bedrooms, r.Bathrooms, r.YearBuilt,
			string(r.Status), r.SoldOrRented, r.PublishedAt,
			pq.Array(r.ImageURLs), extras, r.FetchedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (listing_id) DO NOTHING
	`, strings.Join(insertCols, ", "), strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored records — used by the insight service.
func (pw *PostgresWriter) FetchAll() ([]*models.CanonicalRecord, error) {
	rows, err := pw.db.Query(`
		SELECT listing_id, global_id, property_type, transaction,
		       street, postal_code, city, latitude, longitude,
		       price, currency, price_per_m2, living_area,
		       rooms, bedrooms, bathrooms, year_built,
		       status, sold_or_rented, published_at, image_urls, extras, fetched_at
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.CanonicalRecord
	for rows.Next() {
		var (
			r           models.CanonicalRecord
			propType    string
			transaction string
			status      string
			published   sql.NullTime
			images      pq.StringArray
			extras      []byte
		)
		if err := rows.Scan(
			&r.TinyID, &r.GlobalID, &propType, &transaction,
			&r.Street, &r.PostalCode, &r.City, &r.Latitude, &r.Longitude,
			&r.Price, &r.Currency, &r.PricePerM2, &r.LivingArea,
			&r.Rooms, &r.Bedrooms, &r.Bathrooms, &r.YearBuilt,
			&status, &r.SoldOrRented, &published, &images, &extras, &r.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		r.PropertyType = models.PropertyType(propType)
		r.Transaction = models.Transaction(transaction)
		r.Status = models.Status(status)
		if published.Valid {
			t := published.Time
			r.PublishedAt = &t
		}
		r.ImageURLs = images
		if len(extras) > 0 {
			if err := json.Unmarshal(extras, &r.Extras); err != nil {
				return nil, fmt.Errorf("postgres: unmarshal extras for %s: %w", r.TinyID, err)
			}
		}

		records = append(records, &r)
	}
	return records, rows.Err()
}
