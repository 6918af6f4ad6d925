// Package currency converts listing prices into the base currency using
// the Frankfurter API, with an in-memory rate cache so repeated
// conversions within a run cost one network call per currency.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
)

const (
	defaultAPIURL   = "https://api.frankfurter.app/latest"
	defaultBase     = "GBP"
	defaultRateTTL  = time.Hour
	cleanupInterval = 10 * time.Minute
)

// Converter converts an amount from the given ISO 4217 currency into the
// base currency.
type Converter interface {
	Convert(ctx context.Context, amount float64, from string) (float64, error)
}

// FrankfurterConverter implements Converter against the Frankfurter API.
// Rates are cached per source currency; amounts are converted locally.
type FrankfurterConverter struct {
	apiURL string
	base   string
	client *http.Client
	rates  *gocache.Cache
}

// Option configures the FrankfurterConverter.
type Option func(*FrankfurterConverter)

// WithAPIURL overrides the default Frankfurter endpoint.
func WithAPIURL(u string) Option {
	return func(c *FrankfurterConverter) {
		c.apiURL = u
	}
}

// WithBaseCurrency overrides the default base currency.
func WithBaseCurrency(base string) Option {
	return func(c *FrankfurterConverter) {
		c.base = base
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FrankfurterConverter) {
		c.client = hc
	}
}

// WithRateTTL overrides how long fetched rates are reused.
func WithRateTTL(ttl time.Duration) Option {
	return func(c *FrankfurterConverter) {
		c.rates = gocache.New(ttl, cleanupInterval)
	}
}

// NewFrankfurterConverter creates a converter with a one-hour rate cache.
func NewFrankfurterConverter(opts ...Option) *FrankfurterConverter {
	c := &FrankfurterConverter{
		apiURL: defaultAPIURL,
		base:   defaultBase,
		client: &http.Client{Timeout: 10 * time.Second},
		rates:  gocache.New(defaultRateTTL, cleanupInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Convert returns the amount in the base currency. Conversions from the
// base currency itself never touch the network.
func (c *FrankfurterConverter) Convert(ctx context.Context, amount float64, from string) (float64, error) {
	if from == c.base {
		return amount, nil
	}
	metrics.CurrencyConversionsTotal.Inc()

	if cached, ok := c.rates.Get(from); ok {
		metrics.CurrencyCacheHitsTotal.Inc()
		return amount * cached.(float64), nil
	}

	rate, err := c.fetchRate(ctx, from)
	if err != nil {
		return 0, err
	}
	c.rates.SetDefault(from, rate)

	return amount * rate, nil
}

func (c *FrankfurterConverter) fetchRate(ctx context.Context, from string) (float64, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", c.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("creating rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s rate: %w", from, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var rates ratesResponse
	if err := json.Unmarshal(body, &rates); err != nil {
		return 0, fmt.Errorf("parsing rate response: %w", err)
	}

	rate, ok := rates.Rates[c.base]
	if !ok {
		return 0, fmt.Errorf("no %s rate in response for %s", c.base, from)
	}
	return rate, nil
}
