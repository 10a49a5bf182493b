package extract

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// noisyTLDs are the endings accepted when rebuilding an email from fragments.
const noisyTLDs = `com|net|org|edu|gov|io|co|biz|us`

// noisyEmail recovers addresses where OCR lost the "@" or the dot, e.g.
// "info g acmesolutions com". Only generic mailbox prefixes are trusted.
type noisyEmail struct {
	re *regexp.Regexp
}

func newNoisyEmail(prefixes []string) noisyEmail {
	if len(prefixes) == 0 {
		return noisyEmail{}
	}
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(p))
	}
	pattern := `(?i)\b(` + strings.Join(quoted, "|") + `)[ \t]*(?:@|©|\(at\)|\bat\b|\bg\b)[ \t]*([a-z0-9][a-z0-9-]*)[ \t]*(?:\.|[ \t])[ \t]*(` + noisyTLDs + `)\b`
	return noisyEmail{re: regexp.MustCompile(pattern)}
}

func (n noisyEmail) find(text string) (string, []int) {
	if n.re == nil {
		return "", nil
	}
	loc := n.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", nil
	}
	email := strings.ToLower(text[loc[2]:loc[3]] + "@" + text[loc[4]:loc[5]] + "." + text[loc[6]:loc[7]])
	return email, loc[:2]
}

// extractEmail returns the first email in text, lowercased, together with the
// byte spans of every email-looking match so later extractors can avoid them.
func (e *Extractor) extractEmail(text string) (string, [][]int) {
	spans := emailRe.FindAllStringIndex(text, -1)
	if len(spans) > 0 {
		first := text[spans[0][0]:spans[0][1]]
		return strings.ToLower(strings.TrimRight(first, ".")), spans
	}
	if email, span := e.noisy.find(text); email != "" {
		return email, [][]int{span}
	}
	return "", nil
}
