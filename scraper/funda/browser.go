package funda

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"funda-scraper/config"
	"funda-scraper/models"
	"funda-scraper/utils"
)

// BrowserFetcher is the alternate fetch path: it drives a headless Chrome
// to render the detail page and pulls the same embedded listing state.
// Used for pages that refuse plain HTTP clients.
type BrowserFetcher struct {
	cfg      *config.Config
	logger   *utils.Logger
	retry    *utils.RetryConfig
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher creates a BrowserFetcher with its own Chrome allocator.
// Close must be called when done.
func NewBrowserFetcher(cfg *config.Config, logger *utils.Logger) *BrowserFetcher {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[funda] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &BrowserFetcher{
		cfg:      cfg,
		logger:   logger,
		allocCtx: silentCtx,
		cancel: func() {
			cancelSilent()
			cancelAlloc()
		},
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch renders one listing page and decodes its embedded state.
func (b *BrowserFetcher) Fetch(id string) (*models.RawRecord, error) {
	url := fmt.Sprintf("%s/detail/%s/", b.cfg.BaseURL, id)
	var raw *models.RawRecord

	err := b.retry.Do("browser-fetch-"+id, func() error {
		ctx, cancel := chromedp.NewContext(b.allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var state string

		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`
				(function() {
					var el = document.querySelector('script#listing-state[type="application/json"]');
					return el ? el.textContent : '';
				})()
			`, &state),
		)
		if err != nil {
			return fmt.Errorf("chromedp navigate %s: %w", url, err)
		}

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

	b.logger.Debug("[funda] Browser-fetched %s (%s, %s)", id, raw.TypeLabel, raw.City)
	return raw, nil
}

// Close tears down the Chrome allocator.
func (b *BrowserFetcher) Close() {
	b.cancel()
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
