// Package units converts physical quantities between a fixed set of unit
// symbols. Each symbol carries a multiplier to its category base (grams,
// milliliters, millimeters or bytes); conversion scales through the base.
// Cross-category conversions are not guarded against.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedUnit is returned when a symbol is not in the table.
var ErrUnsupportedUnit = errors.New("unsupported unit")

// multipliers maps each symbol to its category base unit. Data units use
// binary multiples.
var multipliers = map[string]float64{
	"kg":    1000,
	"g":     1,
	"lb":    453.592,
	"oz":    28.3495,
	"fl oz": 29.5735,
	"l":     1000,
	"ml":    1,
	"m":     1000,
	"cm":    10,
	"mm":    1,
	"b":     1,
	"kb":    1024,
	"gb":    1024 * 1024,
	"tb":    1024 * 1024 * 1024,
}

// IsUnit reports whether the symbol (case-insensitive) is convertible.
func IsUnit(symbol string) bool {
	_, ok := multipliers[strings.ToLower(symbol)]
	return ok
}

// Symbols returns the supported symbols, longest first, for tokenizers and
// regexp alternations where "ml" must not shadow "m".
func Symbols() []string {
	return []string{"fl oz", "kg", "lb", "oz", "ml", "mm", "cm", "kb", "gb", "tb", "g", "l", "m", "b"}
}

// Convert converts value from one symbol to another. Symbols are matched
// case-insensitively. Returns ErrUnsupportedUnit for unknown symbols.
func Convert(value float64, from, to string) (float64, error) {
	fromMult, ok := multipliers[strings.ToLower(from)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, from)
	}
	toMult, ok := multipliers[strings.ToLower(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, to)
	}
	return value * fromMult / toMult, nil
}
