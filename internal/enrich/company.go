// Package enrich adds public company and email data to extracted contacts
// and merges it back without overwriting what the card said.
package enrich

import (
	"bytes"
	"context"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

const (
	clearbitLogoURL    = "https://logo.clearbit.com/"
	linkedInCompanyURL = "https://www.linkedin.com/company/"
)

var slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// CompanyEnricher derives company data from the card itself plus, when
// enabled, the company homepage's meta tags.
type CompanyEnricher struct {
	rules   *rules.RuleSet
	fetcher *pageFetcher
}

// NewCompanyEnricher creates a CompanyEnricher. Homepage scraping is on when
// cfg.ScrapeMeta is set.
func NewCompanyEnricher(rs *rules.RuleSet, cfg config.EnrichConfig) *CompanyEnricher {
	e := &CompanyEnricher{rules: rs}
	if cfg.ScrapeMeta {
		e.fetcher = newPageFetcher(cfg.RequestsPerSecond, time.Duration(cfg.TimeoutSecs)*time.Second, cfg.UserAgent)
	}
	return e
}

// Enrich never fails; scrape errors are recorded on the result.
func (e *CompanyEnricher) Enrich(ctx context.Context, company, email, website string) model.CompanyEnrichment {
	out := model.CompanyEnrichment{}

	domain, src := e.Domain(email, website)
	if domain != "" {
		out.Domain = domain
		out.AddSource(src)
		out.LogoURL = clearbitLogoURL + domain
		out.AddSource(model.SourceClearbitLogo)
	}

	var meta siteMeta
	if e.fetcher != nil && domain != "" {
		target := website
		if target == "" {
			target = "https://" + domain
		} else if !strings.Contains(target, "://") {
			target = "https://" + target
		}
		m, err := e.scrape(ctx, target)
		if err != nil {
			zap.L().Debug("enrich: meta scrape failed", zap.String("url", target), zap.Error(err))
			out.AddError(model.SourceWebsiteMeta, err)
		} else if !m.empty() {
			meta = m
			out.Organization = m.SiteName
			out.Description = m.Description
			out.AddSource(model.SourceWebsiteMeta)
		}
	}

	if industry := e.rules.GuessIndustry(strings.Join([]string{company, meta.Description, meta.Keywords}, " ")); industry != "" {
		out.Industry = industry
		out.AddSource(model.SourceKeywords)
	}

	if slug := companySlug(company); slug != "" {
		out.LinkedInURL = linkedInCompanyURL + slug
		out.AddSource(model.SourceLinkedInGuess)
	}
	return out
}

// Domain picks the company domain: the website's registrable domain first,
// then the email domain unless it is a personal provider. The second return
// value is the source used.
func (e *CompanyEnricher) Domain(email, website string) (string, string) {
	if d := websiteDomain(website); d != "" {
		return d, model.SourceWebsite
	}
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		d := strings.ToLower(strings.TrimSpace(email[at+1:]))
		if strings.Contains(d, ".") && !e.rules.IsPersonalDomain(d) {
			return d, model.SourceEmailDomain
		}
	}
	return "", ""
}

func websiteDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return strings.TrimPrefix(host, "www.")
}

// companySlug lowercases the name, drops punctuation and joins words with
// hyphens.
func companySlug(company string) string {
	clean := slugStripRe.ReplaceAllString(company, "")
	return strings.ToLower(strings.Join(strings.Fields(clean), "-"))
}

type siteMeta struct {
	SiteName    string
	Description string
	Keywords    string
}

func (m siteMeta) empty() bool {
	return m.SiteName == "" && m.Description == "" && m.Keywords == ""
}

func (e *CompanyEnricher) scrape(ctx context.Context, target string) (siteMeta, error) {
	body, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		return siteMeta{}, err
	}
	return parseMeta(body)
}

// parseMeta reads og:site_name, the description (og: or plain) and keywords.
func parseMeta(html []byte) (siteMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return siteMeta{}, eris.Wrap(err, "enrich: parse html")
	}

	content := func(sel string) string {
		v, _ := doc.Find(sel).First().Attr("content")
		return strings.Join(strings.Fields(v), " ")
	}

	m := siteMeta{
		SiteName:    content(`meta[property="og:site_name"]`),
		Description: content(`meta[name="description"]`),
		Keywords:    content(`meta[name="keywords"]`),
	}
	if m.Description == "" {
		m.Description = content(`meta[property="og:description"]`)
	}
	return m, nil
}
