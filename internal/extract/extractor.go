// Package extract parses corrected business-card text into a ContactRecord.
// Each field has its own extractor; Extract runs them in dependency order
// (contact fields, then name, title, company and address, which need to know
// which lines the earlier fields claimed).
package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/correct"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

// Extractor turns corrected card text into a ContactRecord. It is safe for
// concurrent use.
type Extractor struct {
	rs    *rules.RuleSet
	noisy noisyEmail
}

// New builds an Extractor over rs.
func New(rs *rules.RuleSet) *Extractor {
	return &Extractor{
		rs:    rs,
		noisy: newNoisyEmail(rs.EmailPrefixes),
	}
}

// card is the per-call parsing state shared by the field extractors.
type card struct {
	text  string
	lines []string

	emailSpans  [][]int
	emailDomain string

	// indexes of lines already attributed to a field, -1 when none.
	nameLine    int
	titleLine   int
	companyLine int
}

// Extract parses text, which should already be corrected, into a record.
// Empty or unusable input yields a record with only RawText set.
func (e *Extractor) Extract(text string) model.ContactRecord {
	rec := model.ContactRecord{RawText: text}

	c := &card{text: text, nameLine: -1, titleLine: -1, companyLine: -1}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if correct.Usable(line) {
			c.lines = append(c.lines, line)
		}
	}
	if len(c.lines) == 0 {
		return rec
	}

	if email, spans := e.extractEmail(c.text); email != "" {
		rec.Email = model.Str(email)
		c.emailSpans = spans
		_, c.emailDomain, _ = strings.Cut(email, "@")
	}
	rec.Phone = extractPhones(c.lines)
	if site := e.extractWebsite(c); site != "" {
		rec.Website = model.Str(site)
	}
	if li := extractLinkedIn(c.text); li != "" {
		rec.LinkedIn = model.Str(li)
	}
	if tw := extractTwitter(c); tw != "" {
		rec.Twitter = model.Str(tw)
	}

	if name, line := e.extractName(c.lines); name != "" {
		rec.Name = model.Str(name)
		c.nameLine = line
		rec.SplitName()
	}
	if title, line := e.extractTitle(c); title != "" {
		rec.Title = model.Str(title)
		c.titleLine = line
	}
	if company, line := e.extractCompany(c); company != "" {
		rec.Company = model.Str(company)
		c.companyLine = line
	}
	if addr := e.extractAddress(c); addr != "" {
		rec.Address = model.Str(addr)
	}

	zap.L().Debug("extract: parsed card",
		zap.Int("lines", len(c.lines)),
		zap.Int("key_fields", rec.KeyFieldCount()),
	)
	return rec
}

// isContactLine reports whether line carries an email address or URL.
func isContactLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "@") ||
		strings.Contains(lower, "www.") ||
		strings.Contains(lower, "http") ||
		strings.Contains(lower, "linkedin.com")
}

// digitShare returns the fraction of runes in s that are ASCII digits.
func digitShare(s string) float64 {
	n, digits := 0, 0
	for _, r := range s {
		n++
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(digits) / float64(n)
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, sp := range spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}
	return false
}
