package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
)

const defaultItemURL = "https://api.ebay.com/buy/browse/v1/item"

// ItemDetail is the single-item Browse API payload. The description is
// listing HTML as the seller wrote it.
type ItemDetail struct {
	ItemSummary
	Description string `json:"description"`
}

// PlainDescription returns the listing description with markup stripped.
func (d *ItemDetail) PlainDescription() string {
	return stripHTML(d.Description)
}

// WithItemURL overrides the default single-item endpoint.
func WithItemURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.itemURL = u
	}
}

// GetItem fetches a single listing by its Browse API item id.
func (c *BrowseClient) GetItem(ctx context.Context, itemID string) (*ItemDetail, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayAPICallsTotal.Inc()
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	u := c.itemURL + "/" + itemID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing item request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var detail ItemDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parsing item response: %w", err)
	}
	return &detail, nil
}

// stripHTML flattens listing markup to the visible text, with whitespace
// collapsed to single spaces.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	tok := html.NewTokenizer(strings.NewReader(s))
	var parts []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.TextToken:
			if text := strings.TrimSpace(string(tok.Text())); text != "" {
				parts = append(parts, strings.Join(strings.Fields(text), " "))
			}
		}
	}
}
