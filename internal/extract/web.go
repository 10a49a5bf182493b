package extract

import (
	"regexp"
	"strings"
)

var (
	websiteRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.[a-z]{2,}(?:/[^\s]*)?`)

	linkedInURLRe   = regexp.MustCompile(`(?i)linkedin\.com/in/([a-z0-9_-]+)`)
	linkedInLabelRe = regexp.MustCompile(`(?i)\blinkedin[ \t]*:[ \t]*([a-z0-9_-]+)`)

	twitterURLRe    = regexp.MustCompile(`(?i)\b(?:twitter|x)\.com/([a-z0-9_]{1,15})\b`)
	twitterHandleRe = regexp.MustCompile(`(?:^|[^\w@.])@([A-Za-z0-9_]{1,15})\b`)
)

// extractWebsite returns the first URL or bare hostname that is not part of
// an email, not the email's own domain and not a social network. Bare
// hostnames (no scheme, no www) need a known TLD.
func (e *Extractor) extractWebsite(c *card) string {
	for _, loc := range websiteRe.FindAllStringIndex(c.text, -1) {
		if overlapsAny(loc[0], loc[1], c.emailSpans) {
			continue
		}
		raw := strings.ToLower(strings.TrimRight(c.text[loc[0]:loc[1]], ".,;:)"))
		// A bare host equal to the email domain is skipped even on its own line.
		if c.emailDomain != "" && raw == c.emailDomain {
			continue
		}

		rest := raw
		hasScheme := false
		for _, scheme := range []string{"https://", "http://"} {
			if strings.HasPrefix(rest, scheme) {
				rest = strings.TrimPrefix(rest, scheme)
				hasScheme = true
			}
		}
		host, _, _ := strings.Cut(rest, "/")
		if e.rs.IsSocialHost(host) {
			continue
		}
		if !hasScheme && !strings.HasPrefix(host, "www.") {
			tld := host[strings.LastIndex(host, ".")+1:]
			if !e.rs.IsCommonTLD(tld) {
				continue
			}
		}

		if hasScheme {
			return raw
		}
		return "https://" + raw
	}
	return ""
}

// extractLinkedIn returns a canonical profile URL for a linkedin.com/in/ link
// or a "LinkedIn: slug" label.
func extractLinkedIn(text string) string {
	if m := linkedInURLRe.FindStringSubmatch(text); m != nil {
		return "https://linkedin.com/in/" + m[1]
	}
	if m := linkedInLabelRe.FindStringSubmatch(text); m != nil {
		return "https://linkedin.com/in/" + m[1]
	}
	return ""
}

// extractTwitter returns "@handle" from a twitter.com or x.com link, or from
// a standalone handle that is not part of an email.
func extractTwitter(c *card) string {
	if m := twitterURLRe.FindStringSubmatch(c.text); m != nil {
		return "@" + m[1]
	}
	for _, loc := range twitterHandleRe.FindAllStringSubmatchIndex(c.text, -1) {
		if overlapsAny(loc[2], loc[3], c.emailSpans) {
			continue
		}
		return "@" + c.text[loc[2]:loc[3]]
	}
	return ""
}
