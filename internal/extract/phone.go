package extract

import (
	"regexp"
	"strings"
)

// Separators are restricted to [-. \t] so a match never spans two lines.
var phoneRe = regexp.MustCompile(
	`\+\d{1,3}[-. \t]?\(?\d{1,4}\)?(?:[-. \t]?\d{2,4}){2,4}` +
		`|(?:\+?1[-. \t]?)?(?:\(\d{3}\)[-. \t]?|\d{3}[-. \t]?)?\d{3}[-. \t]?\d{4}` +
		`|\b\d{10,11}\b`,
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// extractPhones returns every phone number in lines, normalized to digits
// with an optional leading "+", deduplicated in discovery order.
func extractPhones(lines []string) []string {
	var found []string
	for _, line := range lines {
		found = append(found, phoneRe.FindAllString(line, -1)...)
	}
	return NormalizePhones(found)
}

// NormalizePhones normalizes each entry of raw, dropping the ones that are
// not phone numbers and duplicates. Order is kept.
func NormalizePhones(raw []string) []string {
	var phones []string
	seen := make(map[string]bool)
	for _, r := range raw {
		p, ok := NormalizePhone(r)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		phones = append(phones, p)
	}
	return phones
}

// NormalizePhone strips everything but digits, keeping a leading "+". It
// reports false unless the result has between 10 and 15 digits.
func NormalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	if strings.HasPrefix(raw, "+") {
		b.WriteByte('+')
	}
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return "", false
	}
	return b.String(), true
}
