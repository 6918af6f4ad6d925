// Package domain defines the core business types for the resale appraisal
// engine: items being valued, marketplace candidate products, and job lots.
package domain

import (
	"fmt"
	"sort"
)

// Measurement is a physical quantity attached to an item, e.g. 50 ml.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Naming holds the name surface shared by items and products. The cleaned
// fields are what the matcher sees; the Original* fields preserve the text
// as it arrived so context scoring can look at the raw phrasing.
type Naming struct {
	Name        string `json:"name"`
	BrandName   string `json:"brand_name,omitempty"`
	VariantName string `json:"variant_name,omitempty"`

	OriginalName        string `json:"original_name,omitempty"`
	OriginalBrandName   string `json:"original_brand_name,omitempty"`
	OriginalVariantName string `json:"original_variant_name,omitempty"`
}

// Product is a marketplace candidate listing being compared against an item.
type Product struct {
	Naming

	WebURL string `json:"web_url,omitempty"`

	// TotalPrice = BuyPrice + PostagePrice, all in the base currency.
	TotalPrice   float64 `json:"total_price"`
	BuyPrice     float64 `json:"buy_price"`
	PostagePrice float64 `json:"postage_price"`

	// AccuracyScore is the match confidence in [0, 100].
	AccuracyScore   float64 `json:"accuracy_score"`
	BuyQualityScore float64 `json:"buy_quality_score"`

	// Unavailable marks a candidate whose listing lacked a usable price or
	// currency. It stays in the candidate list for inspection but is
	// excluded from pricing.
	Unavailable bool `json:"unavailable,omitempty"`
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	cp := *p
	return &cp
}

// String renders a one-line summary for reports.
func (p *Product) String() string {
	return fmt.Sprintf("%s | total £%.2f (buy £%.2f + post £%.2f) | accuracy %.2f",
		p.Name, p.TotalPrice, p.BuyPrice, p.PostagePrice, p.AccuracyScore)
}

// Item is a target good whose resale value is being estimated.
type Item struct {
	Naming

	Quantity      float64       `json:"quantity"`
	NameCertainty float64       `json:"name_certainty"`
	Measurements  []Measurement `json:"measurements,omitempty"`

	Products    []*Product `json:"products,omitempty"`
	NumProducts int        `json:"num_products"`

	// Appraisal outputs, all rounded to 2 decimals.
	SellPrice          float64 `json:"sell_price"`
	PostagePrice       float64 `json:"postage_price"`
	BuyerProtectionFee float64 `json:"buyer_protection_fee"`
	TotalPrice         float64 `json:"total_price"`

	// AccuracyScore is the estimate confidence in [0, 100]; PriceQuality
	// trades confidence off against total cost.
	AccuracyScore float64 `json:"accuracy_score"`
	PriceQuality  float64 `json:"price_quality"`
}

// NewItem constructs an item with full confidence defaults.
func NewItem(name, brandName, variantName string, quantity float64) *Item {
	return &Item{
		Naming: Naming{
			Name:        name,
			BrandName:   brandName,
			VariantName: variantName,
		},
		Quantity:      quantity,
		NameCertainty: 1,
		AccuracyScore: 100,
	}
}

// Clone returns a deep copy of the item, including its candidate products.
func (it *Item) Clone() *Item {
	cp := *it
	cp.Measurements = append([]Measurement(nil), it.Measurements...)
	cp.Products = make([]*Product, len(it.Products))
	for i, p := range it.Products {
		cp.Products[i] = p.Clone()
	}
	return &cp
}

// AddProduct appends a candidate to the item.
func (it *Item) AddProduct(p *Product) {
	it.Products = append(it.Products, p)
}

// SortProductsByAccuracy orders candidates by descending confidence,
// preserving insertion order among ties.
func (it *Item) SortProductsByAccuracy() {
	sort.SliceStable(it.Products, func(i, j int) bool {
		return it.Products[i].AccuracyScore > it.Products[j].AccuracyScore
	})
}

// String renders a one-line summary for reports.
func (it *Item) String() string {
	return fmt.Sprintf("%s x%g | sell £%.2f | total £%.2f | accuracy %.2f | quality %.2f",
		it.Name, it.Quantity, it.SellPrice, it.TotalPrice, it.AccuracyScore, it.PriceQuality)
}

// JobLot is a purchasable bundle of items, usually a single marketplace
// listing, appraised as a whole.
type JobLot struct {
	Source      string  `json:"source"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	WebURL      string  `json:"web_url,omitempty"`
	Description string  `json:"description,omitempty"`
	Condition   string  `json:"condition,omitempty"`
	Items       []*Item `json:"items,omitempty"`

	// Cost of acquiring the lot.
	BuyPrice        float64 `json:"buy_price"`
	BuyPostagePrice float64 `json:"buy_postage_price"`
	BuyOtherFees    float64 `json:"buy_other_fees"`
	BuyListingPrice float64 `json:"buy_listing_price"`

	// Estimated proceeds of reselling the contents.
	SellPrice        float64 `json:"sell_price"`
	PostagePrice     float64 `json:"postage_price"`
	OtherFees        float64 `json:"other_fees"`
	SellListingPrice float64 `json:"sell_listing_price"`

	Profit        float64 `json:"profit"`
	AccuracyScore float64 `json:"accuracy_score"`
	Rating        float64 `json:"rating"`

	DateCreated string `json:"date_created,omitempty"`
}

// String renders a one-line summary for reports.
func (l *JobLot) String() string {
	return fmt.Sprintf("%s [%s] | buy £%.2f | sell £%.2f | profit £%.2f | rating %.2f | accuracy %.2f",
		l.Name, l.ID, l.BuyListingPrice, l.SellPrice, l.Profit, l.Rating, l.AccuracyScore)
}
