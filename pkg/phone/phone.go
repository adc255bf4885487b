package phone

import "strings"

// CountryCode is the Kenyan international dialing prefix.
const CountryCode = "254"

// normalizedLen is country code + 9-digit subscriber number.
const normalizedLen = 12

// Normalize canonicalizes a Kenyan phone number to international format
// (2547XXXXXXXX). Accepted inputs: already-international (254...), local
// with trunk prefix (07...), or a bare 9-digit subscriber number. Anything
// else is returned digit-stripped and will fail IsValid.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, CountryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return CountryCode + digits[1:]
	case len(digits) == 9:
		return CountryCode + digits
	}
	return digits
}

// IsValid reports whether raw normalizes to a full international number.
func IsValid(raw string) bool {
	n := Normalize(raw)
	return len(n) == normalizedLen && strings.HasPrefix(n, CountryCode)
}
