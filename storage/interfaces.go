package storage

import "funda-scraper/models"

// RecordWriter is the interface any canonical-record sink must satisfy.
type RecordWriter interface {
	Write(records []*models.CanonicalRecord) error
	Close() error
}

// RecordReader is the interface for loading stored canonical records back,
// used by the insight service.
type RecordReader interface {
	FetchAll() ([]*models.CanonicalRecord, error)
}
