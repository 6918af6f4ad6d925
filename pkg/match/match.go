// Package match scores how closely a candidate product matches a searched
// item. Every rule multiplies the candidate's accuracy score in place;
// nothing here clamps or finalizes the score.
package match

import (
	"regexp"
	"strings"

	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/words"
)

// Multiplicative factors for the direct match tiers. Higher means stronger
// evidence. Matches that include digits (sizes, model numbers) score above
// purely alphabetic ones.
const (
	exactScore              = 1.0
	caseInsensitiveScore    = 0.98
	inclusiveScore          = 0.85
	inclusiveCIScore        = 0.83
	noSpacesScore           = 0.97
	inclusiveNoSpacesScore  = 0.81
	alphabeticOnlyPenalty   = 0.05
	candidateDigitPenalty   = 0.4
	missingBrandPenalty     = 0.1
	negationPenalty         = 0.9
	endAnchorMatchFactor    = 0.99
	endAnchorKeywordFactor  = 0.95
	endAnchorMismatchFactor = 0.85
)

// Token-overlap closeness bands for the fallback path.
const (
	exactCloseness = 0.75
	p90Closeness   = 0.6
	p80Closeness   = 0.56
	p70Closeness   = 0.41
	p60Closeness   = 0.36
	p50Closeness   = 0.3
	p40Closeness   = 0.23
	p30Closeness   = 0.15
)

// Scorer adjusts candidate confidence against a target item.
type Scorer struct {
	words *words.Filterer
}

// NewScorer creates a scorer that consults the given filterer for keyword
// and role decisions.
func NewScorer(f *words.Filterer) *Scorer {
	return &Scorer{words: f}
}

// Score multiplies product.AccuracyScore by every applicable rule. Direct
// and substring tiers are tried first; failing those, token overlap decides.
func (s *Scorer) Score(item *domain.Item, product *domain.Product) {
	if !s.scoreDirect(item, product) {
		s.scoreOverlap(item, product)
	}
}

// scoreDirect applies the exact / case-insensitive / substring tiers.
// Returns false when none applied.
func (s *Scorer) scoreDirect(item *domain.Item, product *domain.Product) bool {
	if item.VariantName == product.VariantName {
		product.AccuracyScore *= digitAware(exactScore, item.VariantName)
		return true
	}

	if strings.EqualFold(item.VariantName, product.VariantName) {
		product.AccuracyScore *= digitAware(caseInsensitiveScore, item.VariantName)
		return true
	}

	if item.VariantName != "" && strings.Contains(product.VariantName, item.VariantName) {
		s.adjustForContext(item, product, true)
		s.adjustForEnd(item, product)
		product.AccuracyScore *= inclusiveFactor(inclusiveScore, item.VariantName, product.VariantName)
		return true
	}

	if item.Name != "" && strings.Contains(strings.ToLower(product.Name), strings.ToLower(item.Name)) {
		s.adjustForContext(item, product, true)
		s.adjustForEnd(item, product)
		product.AccuracyScore *= inclusiveFactor(inclusiveCIScore, item.Name, product.Name)
		return true
	}

	itemFlat := flatten(item.VariantName)
	productFlat := flatten(product.VariantName)

	if itemFlat != "" && itemFlat == productFlat {
		s.adjustForContext(item, product, true)
		product.AccuracyScore *= digitAware(noSpacesScore, itemFlat)
		return true
	}

	if itemFlat != "" && strings.Contains(productFlat, itemFlat) {
		s.adjustForContext(item, product, true)
		product.AccuracyScore *= inclusiveFactor(inclusiveNoSpacesScore, itemFlat, productFlat)
		return true
	}

	return false
}

// digitAware keeps the full factor when the matched text contains a digit
// and shaves it slightly otherwise.
func digitAware(factor float64, matched string) float64 {
	if tokenset.ContainsDigit(matched) {
		return factor
	}
	return factor - alphabeticOnlyPenalty
}

// inclusiveFactor handles the asymmetric digit rule for substring tiers: a
// digit on the item side keeps the full factor; a digit only on the
// candidate side suggests a different size or model and is punished hard.
func inclusiveFactor(factor float64, itemText, productText string) float64 {
	if tokenset.ContainsDigit(itemText) {
		return factor
	}
	if tokenset.ContainsDigit(productText) {
		return factor - candidateDigitPenalty
	}
	return factor - alphabeticOnlyPenalty
}

var flattenRe = regexp.MustCompile(`\s+`)

func flatten(s string) string {
	return strings.ToLower(flattenRe.ReplaceAllString(s, ""))
}

// scoreOverlap measures how much of the searched name appears in the
// candidate, token by token, and applies banded multipliers with numeric
// nudges. Numeric counters accumulate over all searched tokens.
func (s *Scorer) scoreOverlap(item *domain.Item, product *domain.Product) {
	itemSet := tokenset.Split(item.VariantName)
	productSet := tokenset.Split(product.VariantName)

	s.adjustForContext(item, product, false)
	s.adjustForEnd(item, product)

	searched := itemSet.Normalized
	candidate := productSet.Normalized

	if item.BrandName != "" && product.BrandName == "" {
		product.AccuracyScore *= missingBrandPenalty
	}

	numbersInName := 0
	numbersMatch := 0
	partsMatch := 0
	for _, word := range searched {
		inCandidate := contains(candidate, word)
		if tokenset.ContainsDigit(word) {
			numbersInName++
			if inCandidate {
				numbersMatch++
				partsMatch++
			}
		} else if inCandidate {
			partsMatch++
		}
	}

	if partsMatch == 0 {
		product.AccuracyScore = 0
		return
	}
	closeness := float64(partsMatch) / float64(len(searched))

	s.adjustForLength(product, searched, candidate, partsMatch)
	s.adjustForCloseness(product, closeness, len(searched), numbersInName, numbersMatch)
}

// adjustForLength penalizes mismatched word counts, softer when the
// candidate title is the shorter one.
func (s *Scorer) adjustForLength(product *domain.Product, searched, candidate []string, partsMatch int) {
	candidateWords := withoutIntegers(candidate)
	searchedWords := withoutIntegers(searched)

	gap := abs(len(candidateWords) - partsMatch)
	if len(candidateWords) < len(searchedWords) {
		switch gap {
		case 1:
			product.AccuracyScore *= 0.97
		case 2:
			product.AccuracyScore *= 0.92
		case 3:
			product.AccuracyScore *= 0.87
		default:
			product.AccuracyScore *= 0.8
		}
		return
	}
	switch gap {
	case 1:
		product.AccuracyScore *= 0.75
	case 2:
		product.AccuracyScore *= 0.7
	case 3:
		product.AccuracyScore *= 0.65
	default:
		product.AccuracyScore *= 0.6
	}
}

// adjustForCloseness applies the banded closeness multiplier. Within each
// band, many numeric tokens relative to the name length nudge the factor
// up, and unmatched numerics are punished.
func (s *Scorer) adjustForCloseness(product *domain.Product, closeness float64, searchedLen, numbersInName, numbersMatch int) {
	nudged := func(base, up, down float64) float64 {
		if searchedLen/5 < numbersInName {
			return base
		}
		if searchedLen/2 < numbersInName {
			return base + up
		}
		return base - down
	}

	switch {
	case closeness == 1:
		if searchedLen/5 < numbersInName {
			product.AccuracyScore *= exactCloseness
		} else if searchedLen/2 < numbersInName {
			product.AccuracyScore *= exactCloseness + 0.05
		} else if numbersInName > 0 {
			product.AccuracyScore *= exactCloseness - 0.05
		} else {
			product.AccuracyScore *= exactCloseness - 0.25
		}
	case closeness < 0.3:
		product.AccuracyScore *= 0.01
	case closeness < 0.4:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p30Closeness, 0.02, 0.01)
			if numbersInName == numbersMatch {
				product.AccuracyScore *= 0.2
			}
		} else {
			product.AccuracyScore *= p30Closeness - 0.02
		}
	case closeness < 0.5:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p40Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= 0.2
			}
		} else {
			product.AccuracyScore *= p40Closeness - 0.05
		}
	case closeness < 0.6:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p50Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= 0.2
			}
		} else {
			product.AccuracyScore *= p50Closeness - 0.05
		}
	case closeness < 0.7:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p60Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= p60Closeness * 0.2
			}
		} else {
			product.AccuracyScore *= p60Closeness - 0.05
		}
	case closeness < 0.8:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p70Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= p70Closeness * 0.2
			}
		} else {
			product.AccuracyScore *= p70Closeness - 0.05
		}
	case closeness < 0.9:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p80Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= 0.2
			}
		} else {
			product.AccuracyScore *= p80Closeness - 0.2
		}
	default:
		if numbersInName > 0 {
			product.AccuracyScore *= nudged(p90Closeness, 0.03, 0.02)
			if numbersInName != numbersMatch {
				product.AccuracyScore *= 0.2
			}
		} else {
			product.AccuracyScore *= p90Closeness - 0.2
		}
	}
}

func withoutIntegers(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !tokenset.IsInteger(t) {
			out = append(out, t)
		}
	}
	return out
}

func contains(tokens []string, word string) bool {
	for _, t := range tokens {
		if t == word {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
