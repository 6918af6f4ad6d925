// Package tokenset splits name text into parallel raw and normalized token
// sequences. Raw tokens keep their surrounding whitespace, so joining any
// span of raw tokens reproduces the original substring exactly; normalized
// tokens are what comparisons run on.
package tokenset

import (
	"strconv"
	"strings"
	"unicode"
)

// Set holds the two parallel views of a tokenized string. Raw[i] and
// Normalized[i] describe the same token.
type Set struct {
	Raw        []string
	Normalized []string
}

// Len returns the number of tokens.
func (s Set) Len() int { return len(s.Raw) }

// Split tokenizes s into numbers (digit runs with an optional decimal
// part), words (letter runs) and single punctuation characters. Whitespace
// is attached to the preceding raw token, or to the following one at the
// start of the string.
func Split(s string) Set {
	var set Set
	runes := []rune(s)
	i := 0
	prefix := ""

	for i < len(runes) {
		start := i
		switch r := runes[i]; {
		case unicode.IsSpace(r):
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			ws := string(runes[start:i])
			if n := len(set.Raw); n > 0 {
				set.Raw[n-1] += ws
			} else {
				prefix += ws
			}
			continue
		case unicode.IsDigit(r):
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			if i+1 < len(runes) && runes[i] == '.' && unicode.IsDigit(runes[i+1]) {
				i++
				for i < len(runes) && unicode.IsDigit(runes[i]) {
					i++
				}
			}
		case unicode.IsLetter(r):
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
		default:
			i++
		}
		raw := prefix + string(runes[start:i])
		prefix = ""
		set.Raw = append(set.Raw, raw)
		set.Normalized = append(set.Normalized, Normalize(string(runes[start:i])))
	}
	if prefix != "" {
		// Whitespace-only input still round-trips.
		set.Raw = append(set.Raw, prefix)
		set.Normalized = append(set.Normalized, "")
	}
	return set
}

// Normalize canonicalizes a single token: numbers are rendered without
// insignificant trailing zeros ("10.0" becomes "10"), everything else is
// trimmed and lowercased.
func Normalize(token string) string {
	trimmed := strings.TrimSpace(token)
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.ToLower(trimmed)
}

// FormatNumber renders a value the same way Normalize renders numeric
// tokens, so rewritten text re-tokenizes to identical normalized tokens.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsInteger reports whether the token is a bare run of decimal digits.
// Decimals such as "10.5" are not integers.
func IsInteger(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsDigit reports whether any character of the token is a digit.
func ContainsDigit(token string) bool {
	return strings.IndexFunc(token, unicode.IsDigit) >= 0
}
