package enrichment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent identifies the importer to product sites
	DefaultUserAgent = "CatalogImport/1.0"

	maxAttempts  = 3
	maxPageBytes = 2 << 20
)

// PageClientConfig configures product page lookups
type PageClientConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// PageClient fetches product pages and pulls a description out of them
type PageClient struct {
	httpClient  *resty.Client
	rateLimiter *rate.Limiter
}

// NewPageClient creates a new product page client
func NewPageClient(cfg PageClientConfig) *PageClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst < 1 {
		cfg.Burst = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeaders(map[string]string{
			"Accept":     "text/html,application/xhtml+xml",
			"User-Agent": cfg.UserAgent,
		})

	return &PageClient{
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Enrich fetches req.URL and returns its description
func (c *PageClient) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.EnrichmentResult, error) {
	pageURL, err := url.Parse(req.URL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid url %q", domain.ErrEnrichmentFailed, req.URL)
	}

	body, err := c.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	result, err := ExtractDescription(body, pageURL)
	if err != nil {
		log.Debug().Str("url", req.URL).Err(err).Msg("No description on product page")
		return nil, err
	}

	return result, nil
}

// fetch downloads a page, retrying transient failures with exponential backoff
func (c *PageClient) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retry, err := c.get(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		log.Debug().Str("url", pageURL).Int("attempt", attempt).Err(err).Msg("Retrying product page")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentFailed, ctx.Err())
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, lastErr
}

// get performs one request and reports whether a failure is worth retrying
func (c *PageClient) get(ctx context.Context, pageURL string) ([]byte, bool, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentFailed, err)
	}

	raw := resp.RawBody()
	defer raw.Close()

	status := resp.StatusCode()
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrEnrichmentFailed, status)
	}
	if status != http.StatusOK {
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrEnrichmentFailed, status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(raw, maxPageBytes)); err != nil {
		return nil, !errors.Is(err, context.Canceled), fmt.Errorf("%w: %v", domain.ErrEnrichmentFailed, err)
	}

	return buf.Bytes(), false, nil
}

// exponentialBackoff returns the wait before retry attempt+1: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
