package enrich

import (
	"net/url"
	"strings"

	"github.com/sells-group/cardscan/internal/model"
)

// Merge returns a copy of c with empty fields filled from e. Populated
// fields are never replaced.
func Merge(c model.ContactRecord, e model.CompanyEnrichment) model.ContactRecord {
	out := c.Clone()
	MergeInto(&out, e)
	return out
}

// MergeInto fills empty fields of dst from e and returns the fields it set.
//
//	Company  <- Organization
//	Website  <- https://Domain
//	LinkedIn <- LinkedInURL, personal /in/ profiles only
//	Twitter  <- handle from TwitterURL
func MergeInto(dst *model.ContactRecord, e model.CompanyEnrichment) []model.Field {
	var filled []model.Field
	fill := func(f model.Field, v string) {
		if model.FillField(dst, f, strings.TrimSpace(v)) {
			filled = append(filled, f)
		}
	}

	fill(model.FieldCompany, e.Organization)
	if e.Domain != "" {
		fill(model.FieldWebsite, "https://"+e.Domain)
	}
	if strings.Contains(e.LinkedInURL, "/in/") {
		fill(model.FieldLinkedIn, e.LinkedInURL)
	}
	if h := twitterHandle(e.TwitterURL); h != "" {
		fill(model.FieldTwitter, "@"+h)
	}
	return filled
}

// twitterHandle extracts the handle from a twitter.com or x.com profile URL,
// or from a bare "@handle".
func twitterHandle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "@") {
		return strings.TrimPrefix(raw, "@")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "twitter.com" && host != "x.com" {
		return ""
	}
	seg, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	return seg
}
