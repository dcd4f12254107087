package briva

import (
	"fmt"
	"regexp"
)

// ReferenceDigits is the number of digits that follow a prefix.
const ReferenceDigits = 10

var nonDigits = regexp.MustCompile(`[^0-9]`)

// compilePattern matches prefix followed by exactly ReferenceDigits digits.
// The trailing group rejects an 11th digit.
func compilePattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(%s[0-9]{%d})(?:[^0-9]|$)`, regexp.QuoteMeta(prefix), ReferenceDigits))
}

// Digits removes every non-digit character from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// Extract finds the BRIVA reference in a remark.
//
// The remark is reduced to its digits, then each prefix is tried in registry
// order; the first prefix that matches wins, wherever the other prefixes
// occur. Because separators are gone at that point, a reference is accepted
// only when no digit follows it in the remark.
//
// RETURNS:
//   - The reference (prefix + 10 digits) and true.
//   - "" and false when no prefix matches.
func (r *Registry) Extract(remark string) (string, bool) {
	text := Digits(remark)
	if text == "" {
		return "", false
	}

	for _, re := range r.patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}
