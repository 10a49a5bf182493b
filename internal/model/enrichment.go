package model

// Enrichment source identifiers recorded in CompanyEnrichment.Sources.
const (
	SourceEmailDomain   = "email_domain"
	SourceWebsite       = "website"
	SourceClearbitLogo  = "clearbit_logo_url"
	SourceKeywords      = "keyword_analysis"
	SourceWebsiteMeta   = "website_meta"
	SourceLinkedInGuess = "linkedin_slug"
	SourceHunter        = "hunter"
	SourceAbstract      = "abstract"
	SourceGitHub        = "github"
)

// CompanyEnrichment is public data gathered about a contact's company and
// email. It never mutates a ContactRecord directly; see enrich.Merge.
type CompanyEnrichment struct {
	Domain       string `json:"domain,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Organization string `json:"organization,omitempty"`
	Country      string `json:"country,omitempty"`
	Description  string `json:"description,omitempty"`

	LinkedInURL string `json:"linkedin_url,omitempty"`
	TwitterURL  string `json:"twitter_url,omitempty"`
	FacebookURL string `json:"facebook_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
	GitHubLogin string `json:"github_login,omitempty"`
	GitHubBio   string `json:"github_bio,omitempty"`
	Followers   int    `json:"github_followers,omitempty"`

	EmailDeliverable *bool   `json:"email_deliverable,omitempty"`
	EmailScore       float64 `json:"email_score,omitempty"`

	Sources []string `json:"sources"`
	Errors  []string `json:"errors"`
}

// AddSource records a source once.
func (e *CompanyEnrichment) AddSource(src string) {
	for _, s := range e.Sources {
		if s == src {
			return
		}
	}
	e.Sources = append(e.Sources, src)
}

// AddError records a per-source failure.
func (e *CompanyEnrichment) AddError(src string, err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, src+": "+err.Error())
}

// Absorb fills empty fields of e from o and appends o's sources and errors.
func (e *CompanyEnrichment) Absorb(o CompanyEnrichment) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&e.Domain, o.Domain)
	fill(&e.LogoURL, o.LogoURL)
	fill(&e.Industry, o.Industry)
	fill(&e.Organization, o.Organization)
	fill(&e.Country, o.Country)
	fill(&e.Description, o.Description)
	fill(&e.LinkedInURL, o.LinkedInURL)
	fill(&e.TwitterURL, o.TwitterURL)
	fill(&e.FacebookURL, o.FacebookURL)
	fill(&e.GitHubURL, o.GitHubURL)
	fill(&e.GitHubLogin, o.GitHubLogin)
	fill(&e.GitHubBio, o.GitHubBio)
	if e.Followers == 0 {
		e.Followers = o.Followers
	}
	if e.EmailDeliverable == nil {
		e.EmailDeliverable = o.EmailDeliverable
	}
	if e.EmailScore == 0 {
		e.EmailScore = o.EmailScore
	}
	for _, s := range o.Sources {
		e.AddSource(s)
	}
	e.Errors = append(e.Errors, o.Errors...)
}
