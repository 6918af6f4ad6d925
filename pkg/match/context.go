package match

import (
	"regexp"
	"strings"

	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// Context penalties. Accessory phrasing ("case FOR iphone", "stand WITH
// charger") is strong evidence the candidate is not the item itself; the
// penalties are softer on the overlap path where the match is already weak.
const (
	withBeforePenalty      = 0.7
	withBeforeLoosePenalty = 0.8
	withSecondPenalty      = 0.85
	withSecondLoosePenalty = 0.95
	forBeforePenalty       = 0.35
	forBeforeLoosePenalty  = 0.45
	forSecondPenalty       = 0.5
	forSecondLoosePenalty  = 0.6
	afterKeywordPenalty    = 0.7
	afterKeywordLoose      = 0.85
	afterSecondPenalty     = 0.85
	afterSecondLoose       = 0.97
)

// adjustForContext inspects the words around the item's name inside the
// candidate's original title and penalizes accessorial phrasing. The
// negation penalty is applied once per pass.
func (s *Scorer) adjustForContext(item *domain.Item, product *domain.Product, match bool) {
	parts := []struct {
		itemPart    string
		productPart string
	}{
		{item.OriginalBrandName, product.OriginalBrandName},
		{item.OriginalVariantName, product.OriginalVariantName},
	}

	itemBrand := strings.ToLower(item.BrandName)
	itemVariant := strings.ToLower(item.VariantName)
	ownWord := func(w string) bool {
		return w != "" && !strings.Contains(itemBrand, w) && !strings.Contains(itemVariant, w)
	}

	var lastNeedle string
	for _, part := range parts {
		needle := contextNeedle(part.itemPart, match)
		if needle == "" {
			continue
		}
		lastNeedle = needle

		before, before2 := wordsBefore(part.productPart, needle)
		if ownWord(before) && before == "with" {
			product.AccuracyScore *= pick(match, withBeforePenalty, withBeforeLoosePenalty)
		}
		if ownWord(before2) && before2 == "with" {
			product.AccuracyScore *= pick(match, withSecondPenalty, withSecondLoosePenalty)
		}
		if ownWord(before) && before == "for" {
			product.AccuracyScore *= pick(match, forBeforePenalty, forBeforeLoosePenalty)
		}
		if ownWord(before2) && before2 == "for" {
			product.AccuracyScore *= pick(match, forSecondPenalty, forSecondLoosePenalty)
		}
	}

	if lastNeedle != "" {
		after, after2 := wordsAfter(product.OriginalVariantName, lastNeedle)
		if ownWord(after) && s.words.IsKeyWord(after) {
			product.AccuracyScore *= pick(match, afterKeywordPenalty, afterKeywordLoose)
		}
		if ownWord(after2) && s.words.IsKeyWord(after2) {
			product.AccuracyScore *= pick(match, afterSecondPenalty, afterSecondLoose)
		}
	}

	if hasWord(product.OriginalVariantName, "no") && !hasWord(item.OriginalVariantName, "no") {
		product.AccuracyScore *= negationPenalty
	}
}

// contextNeedle returns the text to locate inside the candidate: the whole
// part on the direct-match path, its first token on the overlap path.
func contextNeedle(itemPart string, match bool) string {
	itemPart = strings.TrimSpace(itemPart)
	if itemPart == "" {
		return ""
	}
	if match {
		return itemPart
	}
	set := tokenset.Split(itemPart)
	for _, tok := range set.Normalized {
		if tok != "" {
			return tok
		}
	}
	return ""
}

var wordRe = regexp.MustCompile(`\w+`)

// wordsBefore returns the up-to-two words immediately preceding the needle
// in hay, nearest first. Empty strings when the needle is absent or starts
// the text.
func wordsBefore(hay, needle string) (string, string) {
	re := regexp.MustCompile(`(?i)((?:\b\w+\s+){0,2})` + regexp.QuoteMeta(needle))
	m := re.FindStringSubmatch(hay)
	if m == nil {
		return "", ""
	}
	ws := wordRe.FindAllString(m[1], -1)
	switch len(ws) {
	case 0:
		return "", ""
	case 1:
		return strings.ToLower(ws[0]), ""
	default:
		return strings.ToLower(ws[len(ws)-1]), strings.ToLower(ws[len(ws)-2])
	}
}

// wordsAfter returns the up-to-two words immediately following the needle.
func wordsAfter(hay, needle string) (string, string) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(needle) + `((?:\s+\w+){0,2})`)
	m := re.FindStringSubmatch(hay)
	if m == nil {
		return "", ""
	}
	ws := wordRe.FindAllString(m[1], -1)
	switch len(ws) {
	case 0:
		return "", ""
	case 1:
		return strings.ToLower(ws[0]), ""
	default:
		return strings.ToLower(ws[0]), strings.ToLower(ws[1])
	}
}

func hasWord(text, word string) bool {
	for _, tok := range tokenset.Split(text).Normalized {
		if tok == word {
			return true
		}
	}
	return false
}

func pick(match bool, strict, loose float64) float64 {
	if match {
		return strict
	}
	return loose
}

// adjustForEnd anchors on the final word of each title. Titles that end on
// the same word are left nearly untouched; otherwise the candidate's
// trailing word is checked against the role of the item's, on both the
// original and the filtered variant names.
func (s *Scorer) adjustForEnd(item *domain.Item, product *domain.Product) {
	itemOrigLast := lastToken(item.OriginalVariantName)
	productOrigLast := lastToken(product.OriginalVariantName)
	if itemOrigLast == "" || productOrigLast == "" {
		return
	}

	if itemOrigLast == productOrigLast {
		product.AccuracyScore *= endAnchorMatchFactor
		return
	}

	s.endPair(product, itemOrigLast, productOrigLast)
	itemLast := lastToken(item.VariantName)
	productLast := lastToken(product.VariantName)
	if itemLast != "" && productLast != "" {
		s.endPair(product, itemLast, productLast)
	}
}

func (s *Scorer) endPair(product *domain.Product, itemLast, productLast string) {
	role := s.words.TagOf(itemLast)
	if s.words.IsKeyWord(productLast, role) {
		product.AccuracyScore *= endAnchorKeywordFactor
	} else {
		product.AccuracyScore *= endAnchorMismatchFactor
	}
}

func lastToken(text string) string {
	set := tokenset.Split(text)
	for i := len(set.Normalized) - 1; i >= 0; i-- {
		if set.Normalized[i] != "" {
			return set.Normalized[i]
		}
	}
	return ""
}
