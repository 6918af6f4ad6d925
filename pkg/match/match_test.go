package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/words"
)

type mapTagger map[string]words.Role

func (m mapTagger) Tag(word string) words.Role {
	if r, ok := m[word]; ok {
		return r
	}
	return words.Other
}

func newScorer(tags mapTagger) *Scorer {
	return NewScorer(words.NewFilterer(tags))
}

func target(brand, variant string) *domain.Item {
	it := domain.NewItem(strings.TrimSpace(brand+" "+variant), brand, variant, 1)
	it.OriginalName = it.Name
	it.OriginalBrandName = brand
	it.OriginalVariantName = variant
	return it
}

func candidate(brand, variant string) *domain.Product {
	p := &domain.Product{AccuracyScore: 100}
	p.BrandName = brand
	p.VariantName = variant
	p.Name = strings.TrimSpace(brand + " " + variant)
	p.OriginalBrandName = brand
	p.OriginalVariantName = variant
	p.OriginalName = p.Name
	return p
}

func TestScoreExactTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    string
		product string
		want    float64
	}{
		{"exact with digit keeps full confidence", "Gel Polish 10ml", "Gel Polish 10ml", 100},
		{"exact without digit shaved", "Gel Polish", "Gel Polish", 95},
		{"case insensitive with digit", "gel polish 10ml", "Gel Polish 10ml", 98},
		{"case insensitive without digit", "gel polish", "Gel Polish", 93},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newScorer(mapTagger{})
			item := target("", tt.item)
			p := candidate("", tt.product)
			s.Score(item, p)
			assert.InDelta(t, tt.want, p.AccuracyScore, 0.001)
		})
	}
}

func TestScoreNoSpacesTier(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{})
	item := target("", "Gel Polish")
	p := candidate("", "GelPolish")
	s.Score(item, p)
	assert.InDelta(t, 92, p.AccuracyScore, 0.001)
}

func TestScoreAccessoryForPenalty(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{})
	item := target("", "iPhone 12")
	p := candidate("", "Case for iPhone 12")
	s.Score(item, p)

	// Substring tier 0.85, "for" before the match 0.35, shared last word 0.99.
	assert.InDelta(t, 29.4525, p.AccuracyScore, 0.001)
}

func TestScoreNegationPenalty(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{"charger": words.Noun})
	item := target("", "iphone 12")
	p := candidate("", "iphone 12 no charger")
	s.Score(item, p)

	// Substring tier 0.85, trailing keyword 0.85, negation 0.9, end
	// anchoring 0.85 twice.
	assert.InDelta(t, 46.9806, p.AccuracyScore, 0.01)
}

func TestScoreTokenOverlap(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{})
	item := target("", "shea butter cream")
	p := candidate("", "shea nut lotion cream")
	s.Score(item, p)

	// Two of three tokens match: closeness band 0.31, length gap 0.7,
	// shared last word 0.99.
	assert.InDelta(t, 21.483, p.AccuracyScore, 0.001)
}

func TestScoreZeroOverlapZeroesConfidence(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{})
	item := target("", "widget")
	p := candidate("", "completely different")
	s.Score(item, p)
	assert.Zero(t, p.AccuracyScore)
}

func TestScoreMissingBrandPenalty(t *testing.T) {
	t.Parallel()

	s := newScorer(mapTagger{})

	withBrand := candidate("Nivea", "soft creme plus")
	s.Score(target("Nivea", "soft cream"), withBrand)

	withoutBrand := candidate("", "soft creme plus")
	s.Score(target("Nivea", "soft cream"), withoutBrand)

	assert.InDelta(t, withBrand.AccuracyScore*0.1, withoutBrand.AccuracyScore, 0.001)
}
