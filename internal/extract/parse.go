package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// Model output is "Brand: Variant: Quantity: certainty" entries joined by
// "; ". The scrubbers below remove the label words models like to slip
// back in ("Size:", "Quantity:") and flatten stray punctuation before the
// colon-splitting, so a chatty answer still parses.
var (
	specialRe    = regexp.MustCompile(`[^a-zA-Z0-9.:;\-&\s]`)
	labelRes     []*regexp.Regexp
	notAvailRes  []*regexp.Regexp
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func init() {
	for _, label := range []string{"size", "colour", "color", "quantity", "certainty", "unknown"} {
		labelRes = append(labelRes, regexp.MustCompile(`(?i):\s*`+label+`:`))
	}
	for _, pat := range []string{`\s+n/a(:)?`, `\s+n/a(:)?`, `\s+n\s*a(:)?`, `\s+na(:)?`} {
		notAvailRes = append(notAvailRes, regexp.MustCompile(`(?i)`+pat))
	}
}

// ParseItems parses the extraction output into lot items. "NULL" means an
// empty lot; an entry with more than four fields is malformed.
func ParseItems(output string) ([]*domain.Item, error) {
	output = specialRe.ReplaceAllString(output, " ")
	for _, re := range labelRes {
		output = replaceAfterStart(output, re, " ")
	}
	for _, re := range notAvailRes {
		output = re.ReplaceAllString(output, " na$1")
	}
	output = strings.TrimSpace(whitespaceRe.ReplaceAllString(output, " "))

	if output == "NULL" {
		return nil, nil
	}

	var items []*domain.Item
	for _, entry := range strings.Split(output, "; ") {
		item, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseEntry(entry string) (*domain.Item, error) {
	parts := strings.Split(entry, ": ")
	if len(parts) > 4 {
		return nil, fmt.Errorf("extracted item has too many fields (%d): %q", len(parts), entry)
	}
	if len(parts) < 3 {
		return nil, fmt.Errorf("extracted item has too few fields (%d): %q", len(parts), entry)
	}

	brand := strings.TrimSpace(parts[0])
	if strings.EqualFold(brand, "unknown") {
		brand = ""
	}
	variant := strings.TrimSpace(parts[1])
	name := strings.TrimSpace(brand + " " + variant)

	quantity, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing quantity of %q: %w", entry, err)
	}

	certainty := 1.0
	if len(parts) > 3 {
		certainty, err = strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing certainty of %q: %w", entry, err)
		}
	}

	item := domain.NewItem(name, brand, variant, quantity)
	item.NameCertainty = certainty
	return item, nil
}

// replaceAfterStart applies the replacement to every match except one
// anchored at the very start of the string, where the leading field would
// otherwise be destroyed.
func replaceAfterStart(s string, re *regexp.Regexp, repl string) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] == 0 {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
