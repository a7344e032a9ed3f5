package funda

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"funda-scraper/config"
	"funda-scraper/models"
	"funda-scraper/utils"
)

const (
	// stateSelector matches the script element carrying the embedded
	// listing state on a detail page.
	stateSelector = `script#listing-state[type="application/json"]`

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper fetches listing detail pages over plain HTTP and extracts the
// embedded JSON state. It is the default fetch path.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	client *http.Client
	retry  *utils.RetryConfig
}

// New creates a ready-to-use HTTP Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch retrieves and decodes one listing by its tiny id.
func (s *Scraper) Fetch(id string) (*models.RawRecord, error) {
	url := s.listingURL(id)
	var raw *models.RawRecord

	err := s.retry.Do("fetch-"+id, func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "nl-NL,nl;q=0.9")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("get %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", url, err)
		}

		state := strings.TrimSpace(doc.Find(stateSelector).First().Text())
		if state == "" {
			return fmt.Errorf("page %s: %w", url, ErrEmptyPayload)
		}

		payload, err := decodeListingPayload([]byte(state))
		if err != nil {
			return err
		}

		raw = toRawRecord(payload, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("[funda] Fetched %s (%s, %s)", id, raw.TypeLabel, raw.City)
	return raw, nil
}

func (s *Scraper) listingURL(id string) string {
	return fmt.Sprintf("%s/detail/%s/", strings.TrimRight(s.cfg.BaseURL, "/"), id)
}
