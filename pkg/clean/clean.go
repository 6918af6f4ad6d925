// Package clean normalizes listing titles. The base cleaner strips
// marketing boilerplate and canonicalizes numbers and units; the product
// cleaner additionally reconciles a candidate against the item it is being
// compared to (brand inference, pack collapse, unit and value alignment).
package clean

import (
	"regexp"
	"strings"

	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/units"
)

// Marketing and listing phrases that carry no product identity. Matched
// case-insensitively on word boundaries.
var removalTerms = []string{
	`new`, `brand`, `sealed`, `clearance`, `unused`, `by`,
	`free\s+postage`, `free\s+delivery`, `new\s*&\s*unused`,
	`updated`, `discontinued`, `discounted`, `delivery`,
	`free\s+shipping`, `worldwide`, `global`, `international`, `local`,
	`uk`, `original`, `authentic`, `genuine`, `official`,
	`limited\s+edition`, `collectible`, `vintage`, `rare`,
	`one\s+of\s+a\s+kind`, `seller`, `unique`, `job\s+lot`, `lot`,
	`bulk`, `wholesale`, `for\s+sale`, `for\s+auction`, `for\s+resale`,
	`for\s+collection`, `for\s+delivery`, `for\s+shipping`,
	`free\s+post`, `free\s+ship`, `vegan`, `cruelty\s+free`,
	`eco\s+friendly`, `euro`, `packaging`, `biodegradable`,
	`plastic\s+free`, `recyclable`, `sustainable`, `organic`, `natural`,
	`new\s+with\s+tags`, `new\s+with\s+box`, `new\s+in\s+box`,
	`never\s+used`, `never\s+opened`, `never\s+been\s+used`,
	`never\s+been\s+opened`,
}

var (
	removalRe    = regexp.MustCompile(`(?i)\b(?:` + strings.Join(removalTerms, "|") + `)\b`)
	separatorRe  = regexp.MustCompile(`[-_]`)
	specialRe    = regexp.MustCompile(`[^a-zA-Z0-9.=\-&\s]`)
	edgeDotsRe   = regexp.MustCompile(`^\.+|\.+$`)
	looseDotRe   = regexp.MustCompile(`\.(\D|$)`)
	numberRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	rrpRe        = regexp.MustCompile(`(?i)rrp\s*\d+(?:\.\d+)?`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	unitJoinRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+(` + unitsAlternation() + `)\b`)
)

func unitsAlternation() string {
	syms := units.Symbols()
	escaped := make([]string, len(syms))
	for i, s := range syms {
		escaped[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(escaped, "|")
}

// Cleaner performs the base title normalization shared by items and
// candidate products.
type Cleaner struct{}

// New returns the base cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// CleanItem normalizes an item's names in place.
func (c *Cleaner) CleanItem(item *domain.Item) {
	c.Basic(&item.Naming)
}

// Basic runs the core cleaning pipeline on a name surface. The Original*
// fields are seeded from the incoming values before the aggressive passes
// run, so context scoring still sees the raw phrasing.
func (c *Cleaner) Basic(n *domain.Naming) {
	name := strings.TrimSpace(n.VariantName)
	name = separatorRe.ReplaceAllString(name, " ")
	name = removalRe.ReplaceAllString(name, "")

	n.OriginalName = strings.TrimSpace(n.BrandName + " " + n.VariantName)
	n.OriginalVariantName = strings.TrimSpace(n.VariantName)
	n.OriginalBrandName = strings.TrimSpace(n.BrandName)

	name = strings.TrimSpace(specialRe.ReplaceAllString(name, " "))
	name = edgeDotsRe.ReplaceAllString(name, "")
	name = looseDotRe.ReplaceAllString(name, " $1")

	// Canonical number rendering: "10.00" -> "10", "10.50" -> "10.5".
	name = numberRe.ReplaceAllStringFunc(name, tokenset.Normalize)

	// "50 ML" -> "50ml".
	name = unitJoinRe.ReplaceAllStringFunc(name, func(m string) string {
		parts := unitJoinRe.FindStringSubmatch(m)
		return parts[1] + strings.ToLower(parts[2])
	})

	name = rrpRe.ReplaceAllString(name, " ")
	name = strings.ReplaceAll(name, "&", " and ")
	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))
	name = strings.TrimSpace(removalRe.ReplaceAllString(name, ""))

	n.VariantName = name
	n.Name = strings.TrimSpace(n.BrandName + " " + n.VariantName)
}

// replaceSpan replaces a literal span of title text, case-insensitively.
func replaceSpan(s, span, repl string, once bool) string {
	if span == "" {
		return s
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(span))
	if once {
		replaced := false
		return re.ReplaceAllStringFunc(s, func(m string) string {
			if replaced {
				return m
			}
			replaced = true
			return repl
		})
	}
	return re.ReplaceAllString(s, repl)
}
