package services

import (
	"time"

	"funda-scraper/models"
	"funda-scraper/utils"
)

// FetchFunc retrieves one raw listing by its tiny id. Implementations
// report any non-recoverable condition as an error; they never panic.
type FetchFunc func(id string) (*models.RawRecord, error)

// BatchFetcher drives fetch-then-normalize over an identifier list,
// strictly one listing at a time. A shared rate gate keeps at least the
// configured spacing between fetches, and a failed identifier is recorded
// and skipped — it never takes the rest of the batch down with it.
type BatchFetcher struct {
	logger     *utils.Logger
	normalizer *Normalizer
	gate       *utils.RateGate
}

// NewBatchFetcher creates a BatchFetcher enforcing minDelay between fetches.
func NewBatchFetcher(logger *utils.Logger, minDelay time.Duration) *BatchFetcher {
	return &BatchFetcher{
		logger:     logger,
		normalizer: NewNormalizer(logger),
		gate:       utils.NewRateGate(minDelay),
	}
}

// Run processes the identifiers in input order and returns the accumulated
// batch result. It always runs the full list to completion; retrying
// failed identifiers is the caller's call, typically by re-submitting
// result.FailedIDs.
func (b *BatchFetcher) Run(ids []string, fetch FetchFunc) *models.BatchResult {
	result := &models.BatchResult{}
	start := time.Now()

	b.logger.Info("[batch] Starting batch — %d listings, %v between requests",
		len(ids), b.gate.MinInterval())

	for i, id := range ids {
		b.gate.Wait()
		result.Requests++

		raw, err := fetch(id)
		if err != nil || raw == nil {
			b.logger.Warn("[batch] Fetch failed for %s: %v", id, err)
			result.FailedIDs = append(result.FailedIDs, id)
		} else {
			result.Records = append(result.Records, b.normalizer.Normalize(raw))
		}

		result.Elapsed = time.Since(start)
		b.logger.Debug("[batch] %d/%d processed — %.1f listings/min",
			i+1, len(ids), result.Rate())
	}

	b.logger.Info("[batch] Batch done — %d normalized, %d failed in %v",
		len(result.Records), len(result.FailedIDs), result.Elapsed.Round(time.Millisecond))
	return result
}
