// Package words filters name text down to its load-bearing tokens using a
// part-of-speech oracle. Progressively stricter filter schemes produce the
// views that match scoring averages over.
package words

import (
	"slices"
	"strings"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/units"
)

// Role is a coarse grammatical role.
type Role string

// Roles recognised by the filter schemes.
const (
	Noun       Role = "NOUN"
	ProperNoun Role = "PROPN"
	Adjective  Role = "ADJ"
	Adverb     Role = "ADV"
	Other      Role = "X"
)

// Tagger assigns a role to a single word. Implementations must be
// deterministic for a given word.
type Tagger interface {
	Tag(word string) Role
}

// Scheme pairs a role allowlist with the weight its filtered view carries
// when scores are averaged.
type Scheme struct {
	Roles  []Role
	Weight float64
}

// DefaultSchemes returns the standard four views. Stricter schemes keep
// fewer roles and carry more weight.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{Roles: []Role{Noun, ProperNoun, Adjective, Adverb}, Weight: 1.0},
		{Roles: []Role{Noun, ProperNoun, Adjective}, Weight: 1.3},
		{Roles: []Role{Noun, ProperNoun}, Weight: 1.7},
		{Roles: []Role{Noun}, Weight: 3.0},
	}
}

// Filterer rewrites variant names, keeping only tokens that are function
// words ("for"/"with"), unit symbols, tokens containing digits, or words
// whose role is in the scheme's allowlist.
type Filterer struct {
	tagger Tagger
}

// NewFilterer creates a Filterer backed by the given tagger.
func NewFilterer(t Tagger) *Filterer {
	return &Filterer{tagger: t}
}

// FilterItem rewrites the item's variant name in place.
func (f *Filterer) FilterItem(item *domain.Item, roles []Role) {
	item.VariantName = f.filter(item.VariantName, roles, nil)
}

// FilterProduct rewrites the product's variant name in place. In addition
// to the item rules, tokens already present in the item's variant name are
// always kept.
func (f *Filterer) FilterProduct(item *domain.Item, product *domain.Product, roles []Role) {
	itemVariant := strings.ToLower(item.VariantName)
	product.VariantName = f.filter(product.VariantName, roles, func(norm string) bool {
		return strings.Contains(itemVariant, norm)
	})
}

func (f *Filterer) filter(text string, roles []Role, alsoKeep func(string) bool) string {
	set := tokenset.Split(text)
	var b strings.Builder
	for i, raw := range set.Raw {
		norm := set.Normalized[i]
		keep := norm == "for" || norm == "with" ||
			units.IsUnit(norm) ||
			tokenset.ContainsDigit(norm) ||
			(alsoKeep != nil && alsoKeep(norm)) ||
			(norm != "" && slices.Contains(roles, f.tagger.Tag(norm)))
		if keep {
			b.WriteString(raw)
		}
	}
	return strings.TrimSpace(b.String())
}

// TagOf returns the role of a single word, Other for empty input.
func (f *Filterer) TagOf(word string) Role {
	if word == "" {
		return Other
	}
	return f.tagger.Tag(word)
}

// IsKeyWord reports whether the word's role is in the given set, which
// defaults to NOUN alone.
func (f *Filterer) IsKeyWord(word string, roles ...Role) bool {
	if word == "" {
		return false
	}
	if len(roles) == 0 {
		roles = []Role{Noun}
	}
	return slices.Contains(roles, f.tagger.Tag(word))
}
