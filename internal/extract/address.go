package extract

import (
	"regexp"
	"strings"
)

var (
	zipRe        = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	stateCommaRe = regexp.MustCompile(`,[ \t]*([A-Z]{2})\b`)
	stateZipRe   = regexp.MustCompile(`\b([A-Z]{2})[ \t]+\d{5}\b`)
	phoneLabelRe = regexp.MustCompile(`(?i)\b(?:tel|phone|ph|mobile|mob|cell|fax|office|direct|main|[tmfcpo])\b\.?[ \t]*:?`)
)

const addressTrim = ",;: \t"

// extractAddress joins every line that looks like part of a postal address,
// in document order. Lines already claimed by name, title or company are
// skipped, as are lines that only hold phone numbers.
func (e *Extractor) extractAddress(c *card) string {
	var parts []string
	for i, line := range c.lines {
		if i == c.nameLine || i == c.titleLine || i == c.companyLine {
			continue
		}
		if isContactLine(line) || isPhoneOnly(line) {
			continue
		}
		if e.isAddressLine(line) {
			parts = append(parts, strings.Trim(line, addressTrim))
		}
	}
	return strings.Join(parts, ", ")
}

func (e *Extractor) isAddressLine(line string) bool {
	if zipRe.MatchString(line) || e.rs.HasStateName(line) || e.rs.HasStreetKeyword(line) {
		return true
	}
	for _, re := range []*regexp.Regexp{stateCommaRe, stateZipRe} {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			if e.rs.IsStateAbbr(m[1]) {
				return true
			}
		}
	}
	return false
}

// isPhoneOnly reports whether nothing but phone numbers and their labels
// remain on line.
func isPhoneOnly(line string) bool {
	if !phoneRe.MatchString(line) {
		return false
	}
	rest := phoneRe.ReplaceAllString(line, "")
	rest = phoneLabelRe.ReplaceAllString(rest, "")
	for _, r := range rest {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
