// Package ebay provides an eBay Browse API client abstracted behind
// interfaces for testability, plus the progressive search widening used
// when a strict query returns too few comparable listings.
package ebay

import (
	"context"
)

// Conditions accepted by SearchRequest.
const (
	ConditionNew  = "NEW"
	ConditionUsed = "USED"
)

// SearchRequest defines the parameters for a comparable-listing search.
type SearchRequest struct {
	Query     string
	Limit     int
	Condition string
	// LocalOnly restricts results to listings delivered from and within GB.
	LocalOnly bool
}

// SearchResponse holds the results of an eBay search.
type SearchResponse struct {
	Items []ItemSummary
	Total int
}

// Client defines the interface for interacting with the eBay API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// ItemClient extends Client with single-listing lookup, used when a lot
// is appraised from a direct eBay link.
type ItemClient interface {
	Client
	GetItem(ctx context.Context, itemID string) (*ItemDetail, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ItemSummary represents a single item from the Browse API search response.
type ItemSummary struct {
	ItemID           string           `json:"itemId"`
	Title            string           `json:"title"`
	Price            ItemPrice        `json:"price"`
	ItemWebURL       string           `json:"itemWebUrl"`
	Condition        string           `json:"condition"`
	ShippingOptions  []ShippingOption `json:"shippingOptions,omitempty"`
	Image            *ItemImage       `json:"image,omitempty"`
	ThumbnailImages  []ItemImage      `json:"thumbnailImages,omitempty"`
	ShortDescription string           `json:"shortDescription,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage holds eBay image information.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ShippingOption holds eBay shipping information.
type ShippingOption struct {
	ShippingCost *ItemPrice `json:"shippingCost,omitempty"`
}
