package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

const (
	allLotsFile     = "all_job_lots.json"
	workingLotsFile = "working_job_lots.json"
	searchesFile    = "searches.txt"
	reportsDir      = "reports"
)

// FileStore keeps lots as JSON collections under a single directory.
// It is the only implementation; the appraisal runs are single-process
// and the files are small enough to rewrite whole on every change.
type FileStore struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) {
		s.log = l
	}
}

// WithNowFunc overrides the clock used for report file names.
func WithNowFunc(now func() time.Time) FileOption {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore creates the directory layout and returns a store rooted
// at dir.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		dir: dir,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Join(dir, reportsDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return s, nil
}

// SaveLot archives the lot and promotes it into the working set when its
// rating clears the floor. The working set stays sorted best-first.
func (s *FileStore) SaveLot(ctx context.Context, lot *domain.JobLot) error {
	all, err := s.AllLots(ctx)
	if err != nil {
		return err
	}
	if !containsLot(all, lot) {
		all = append(all, lot)
		if err := s.writeLots(allLotsFile, all); err != nil {
			return err
		}
	}

	working, err := s.WorkingLots(ctx)
	if err != nil {
		return err
	}
	switch {
	case lot.Rating < RatingFloor:
		s.log.Info("rating below floor, keeping lot out of working set",
			"lot", lot.Name, "rating", lot.Rating)
	case containsLot(working, lot):
		s.log.Info("lot already in working set", "lot", lot.Name)
	default:
		working = append(working, lot)
	}

	sortLots(working)
	return s.writeLots(workingLotsFile, working)
}

// LotExists reports whether the archive holds a lot with this identity.
func (s *FileStore) LotExists(ctx context.Context, id string, buyListingPrice, buyPostagePrice float64) (bool, error) {
	all, err := s.AllLots(ctx)
	if err != nil {
		return false, err
	}
	probe := &domain.JobLot{ID: id, BuyListingPrice: buyListingPrice, BuyPostagePrice: buyPostagePrice}
	return containsLot(all, probe), nil
}

// AllLots returns every archived lot.
func (s *FileStore) AllLots(ctx context.Context) ([]*domain.JobLot, error) {
	return s.readLots(ctx, allLotsFile)
}

// WorkingLots returns the working set, best rating first.
func (s *FileStore) WorkingLots(ctx context.Context) ([]*domain.JobLot, error) {
	return s.readLots(ctx, workingLotsFile)
}

// RefreshWorking empties the working set.
func (s *FileStore) RefreshWorking(context.Context) error {
	return s.writeLots(workingLotsFile, nil)
}

// RemoveLots drops the named lots from the working set.
func (s *FileStore) RemoveLots(ctx context.Context, names ...string) error {
	working, err := s.WorkingLots(ctx)
	if err != nil {
		return err
	}
	kept := working[:0]
	for _, lot := range working {
		remove := false
		for _, name := range names {
			if lot.Name == name {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, lot)
		}
	}
	return s.writeLots(workingLotsFile, kept)
}

// AutoSearches returns the saved search queries, one per line in the
// backing file.
func (s *FileStore) AutoSearches(context.Context) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, searchesFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading searches: %w", err)
	}
	var searches []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			searches = append(searches, line)
		}
	}
	return searches, nil
}

// UpdateAutoSearches replaces the saved search list. An empty list leaves
// the file untouched.
func (s *FileStore) UpdateAutoSearches(_ context.Context, searches []string) error {
	if len(searches) == 0 {
		s.log.Info("no searches given, keeping existing list")
		return nil
	}
	data := strings.Join(searches, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(s.dir, searchesFile), []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing searches: %w", err)
	}
	return nil
}

func (s *FileStore) readLots(_ context.Context, name string) ([]*domain.JobLot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var lots []*domain.JobLot
	if err := json.Unmarshal(data, &lots); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return lots, nil
}

func (s *FileStore) writeLots(name string, lots []*domain.JobLot) error {
	if lots == nil {
		lots = []*domain.JobLot{}
	}
	data, err := json.MarshalIndent(lots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// containsLot matches on the listing identity. Lots without a listing id
// (created by hand or from an image) match by name instead.
func containsLot(lots []*domain.JobLot, probe *domain.JobLot) bool {
	for _, lot := range lots {
		if sameLot(lot, probe) {
			return true
		}
	}
	return false
}

func sameLot(a, b *domain.JobLot) bool {
	if a.BuyListingPrice != b.BuyListingPrice || a.BuyPostagePrice != b.BuyPostagePrice {
		return false
	}
	if a.ID != "" || b.ID != "" {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}

// sortLots orders best-first: rating, then accuracy, then sell price.
func sortLots(lots []*domain.JobLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].Rating != lots[j].Rating {
			return lots[i].Rating > lots[j].Rating
		}
		if lots[i].AccuracyScore != lots[j].AccuracyScore {
			return lots[i].AccuracyScore > lots[j].AccuracyScore
		}
		return lots[i].SellPrice > lots[j].SellPrice
	})
}
