package utils

import "strings"

// NormalizeEmail canonicalizes an email address for identity matching.
// Returns "" when the input is blank.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone canonicalizes a phone number to a leading-"+" digits-only
// form. Returns "" when no digits remain.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return "+" + digits.String()
}

// IdentityKeys builds the ordered, de-duplicated set of lookup keys for a raw
// identity. Absent fields are skipped; an entirely empty identity yields an
// empty set, meaning no invitation can match.
func IdentityKeys(email, phone string) []string {
	var keys []string
	seen := map[string]bool{}

	if e := NormalizeEmail(email); e != "" && !seen[e] {
		keys = append(keys, e)
		seen[e] = true
	}
	if p := NormalizePhone(phone); p != "" && !seen[p] {
		keys = append(keys, p)
		seen[p] = true
	}
	return keys
}
