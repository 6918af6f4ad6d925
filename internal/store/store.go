// Package store persists appraised job lots and the saved-search list.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without touching disk.
package store

import (
	"context"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// RatingFloor is the lowest rating a lot may carry and still enter the
// working set. Lots below it are kept in the archive only.
const RatingFloor = -100

// Store defines all data access operations for appraised lots.
type Store interface {
	// SaveLot archives the lot and, if it rates above the floor, adds it
	// to the working set. Duplicates are dropped silently.
	SaveLot(ctx context.Context, lot *domain.JobLot) error

	// LotExists reports whether a lot with the same listing identity has
	// been archived before. Price and postage are part of the identity so
	// a relisted lot at a new price is appraised again.
	LotExists(ctx context.Context, id string, buyListingPrice, buyPostagePrice float64) (bool, error)

	AllLots(ctx context.Context) ([]*domain.JobLot, error)
	WorkingLots(ctx context.Context) ([]*domain.JobLot, error)

	// RefreshWorking clears the working set without touching the archive.
	RefreshWorking(ctx context.Context) error

	// RemoveLots drops lots with the given names from the working set.
	RemoveLots(ctx context.Context, names ...string) error

	// WriteReport renders the working set as a sorted text report and
	// returns the path it was written to.
	WriteReport(ctx context.Context) (string, error)

	AutoSearches(ctx context.Context) ([]string, error)
	UpdateAutoSearches(ctx context.Context, searches []string) error
}
