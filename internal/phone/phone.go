// Package phone normalizes Brazilian phone numbers into the digits-only,
// country-code-prefixed form used as the lookup key for users and tokens.
package phone

import "strings"

// CountryCode is prefixed to every normalized number.
const CountryCode = "55"

// Normalize strips every non-digit and prefixes CountryCode unless the digits
// already start with it. The result always starts with CountryCode, so input
// without any digit yields CountryCode alone.
func Normalize(raw string) string {
	digits := Digits(raw)
	if !strings.HasPrefix(digits, CountryCode) {
		digits = CountryCode + digits
	}
	return digits
}

// Digits returns only the ASCII digits of raw.
func Digits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}
