package extract

import (
	"strings"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxCompanyDigitShare = 0.3

// extractCompany tries, in order: a line with a company indicator, an
// ALL-CAPS multi-word line nobody else claimed, and the registrable label of
// a business email domain. The returned line index is -1 for the last.
func (e *Extractor) extractCompany(c *card) (string, int) {
	for i, line := range c.lines {
		if !e.companyCandidateLine(c, i) {
			continue
		}
		if e.rs.HasCompanyIndicator(line) {
			return line, i
		}
	}

	for i, line := range c.lines {
		if !e.companyCandidateLine(c, i) {
			continue
		}
		if len(strings.Fields(line)) >= 2 && isUpperLine(line) && !e.rs.HasTitleKeyword(line) {
			return line, i
		}
	}

	if c.emailDomain != "" && !e.rs.IsPersonalDomain(c.emailDomain) {
		if label := registrableLabel(c.emailDomain); label != "" {
			return cases.Title(language.English).String(label), -1
		}
	}
	return "", -1
}

func (e *Extractor) companyCandidateLine(c *card, i int) bool {
	line := c.lines[i]
	return i != c.nameLine &&
		i != c.titleLine &&
		!isContactLine(line) &&
		digitShare(line) <= maxCompanyDigitShare
}

// registrableLabel returns the leftmost label of the registrable domain,
// e.g. "acme" for "mail.acme.co.uk".
func registrableLabel(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		etld1 = domain
	}
	label, _, _ := strings.Cut(etld1, ".")
	return label
}

// isUpperLine reports whether line has letters and none of them lowercase.
func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}
