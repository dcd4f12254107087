package statement

import (
	"strconv"
	"strings"
)

// NormalizeNominal converts an amount cell to an integer.
//
// Empty cells are 0. Otherwise the value is trimmed, every "," is removed and
// one trailing ".00" is stripped before parsing as a base-10 integer. Anything
// that still does not parse is 0, so "1234.50" normalizes to 0.
func NormalizeNominal(value string) int64 {
	n, err := parseNominal(value)
	if err != nil {
		return 0
	}
	return n
}

// IsFallback reports whether a non-empty cell normalized to 0 only because it
// could not be parsed.
func IsFallback(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	_, err := parseNominal(value)
	return err != nil
}

func parseNominal(value string) (int64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, ".00")
	return strconv.ParseInt(s, 10, 64)
}
