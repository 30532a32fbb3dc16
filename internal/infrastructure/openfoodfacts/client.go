package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nutriscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client fetches product payloads from the Open Food Facts API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// ClientConfig holds tunables for the lookup client.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// NewClient creates a new Open Food Facts client. The API is public and
// unauthenticated; the rate limiter keeps request volume polite.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	perSecond := cfg.RatePerSecond
	if perSecond == 0 {
		perSecond = 2
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = 5
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// FetchProduct retrieves the raw upstream payload for a barcode.
// An upstream status of 0 means the barcode is unregistered and yields
// ErrProductNotFound; transport and parse failures yield a wrapped
// ErrLookupFailed. The two are distinguishable with errors.Is. No retries
// are performed here.
func (c *Client) FetchProduct(ctx context.Context, barcode string) (*domain.RawProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrLookupFailed, err)
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", "NutriScan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[OFF] request error for %s: %v", barcode, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	// The product endpoint reports "not found" through the status
	// discriminator in the body, but some deployments answer 404 directly.
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[OFF] API error for %s - status: %d, body: %s", barcode, resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	var lookup domain.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		log.Printf("[OFF] decode error for %s: %v", barcode, err)
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrLookupFailed, err)
	}

	if lookup.Status == domain.LookupStatusNotFound || lookup.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return lookup.Product, nil
}
