package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
	"github.com/sells-group/cardscan/pkg/abstractapi"
	"github.com/sells-group/cardscan/pkg/github"
	"github.com/sells-group/cardscan/pkg/hunter"
)

// Researcher queries third-party sources about a contact. A nil client skips
// that source.
type Researcher struct {
	Hunter   hunter.Client
	Abstract abstractapi.Client
	GitHub   github.Client

	rules *rules.RuleSet
}

// NewResearcher wires a client for every source whose key is configured.
func NewResearcher(rs *rules.RuleSet, cfg *config.Config) *Researcher {
	r := &Researcher{rules: rs}
	if cfg.Hunter.Key != "" {
		r.Hunter = hunter.NewClient(cfg.Hunter.Key, hunter.WithBaseURL(cfg.Hunter.BaseURL))
	}
	if cfg.Abstract.Key != "" {
		r.Abstract = abstractapi.NewClient(cfg.Abstract.Key, abstractapi.WithBaseURL(cfg.Abstract.BaseURL))
	}
	if cfg.GitHub.Token != "" {
		r.GitHub = github.NewClient(cfg.GitHub.Token, github.WithBaseURL(cfg.GitHub.BaseURL))
	}
	return r
}

// Sources lists the configured sources.
func (r *Researcher) Sources() []string {
	var out []string
	if r.Hunter != nil {
		out = append(out, model.SourceHunter)
	}
	if r.Abstract != nil {
		out = append(out, model.SourceAbstract)
	}
	if r.GitHub != nil {
		out = append(out, model.SourceGitHub)
	}
	return out
}

// Research runs every configured source concurrently. Source failures are
// recorded in Errors; Research itself never fails. Results are combined in
// a fixed source order so the output does not depend on timing.
func (r *Researcher) Research(ctx context.Context, c model.ContactRecord) model.CompanyEnrichment {
	email := strings.ToLower(model.Value(c.Email))
	name := model.Value(c.Name)

	var hunterOut, abstractOut, githubOut model.CompanyEnrichment
	var g errgroup.Group
	if r.Hunter != nil && email != "" {
		g.Go(func() error {
			hunterOut = r.researchHunter(ctx, email)
			return nil
		})
	}
	if r.Abstract != nil && email != "" {
		g.Go(func() error {
			abstractOut = r.researchAbstract(ctx, email)
			return nil
		})
	}
	if r.GitHub != nil && (email != "" || name != "") {
		g.Go(func() error {
			githubOut = r.researchGitHub(ctx, email, name)
			return nil
		})
	}
	_ = g.Wait()

	out := model.CompanyEnrichment{}
	out.Absorb(hunterOut)
	out.Absorb(abstractOut)
	out.Absorb(githubOut)

	zap.L().Debug("enrich: research complete",
		zap.Strings("sources", out.Sources),
		zap.Int("errors", len(out.Errors)),
	)
	return out
}

func (r *Researcher) researchHunter(ctx context.Context, email string) model.CompanyEnrichment {
	out := model.CompanyEnrichment{}

	v, err := r.Hunter.VerifyEmail(ctx, email)
	if err != nil {
		out.AddError(model.SourceHunter, err)
	} else {
		deliverable := v.Result == "deliverable"
		out.EmailDeliverable = &deliverable
		out.EmailScore = float64(v.Score) / 100
		out.AddSource(model.SourceHunter)
	}

	domain := email[strings.LastIndexByte(email, '@')+1:]
	if domain == "" || r.rules.IsPersonalDomain(domain) {
		return out
	}
	d, err := r.Hunter.DomainSearch(ctx, domain)
	if err != nil {
		out.AddError(model.SourceHunter, err)
		return out
	}
	out.Domain = d.Domain
	out.Organization = d.Organization
	out.Industry = d.Industry
	out.Country = d.Country
	out.Description = d.Description
	out.LinkedInURL = d.LinkedIn
	out.TwitterURL = d.Twitter
	out.FacebookURL = d.Facebook
	out.AddSource(model.SourceHunter)
	return out
}

func (r *Researcher) researchAbstract(ctx context.Context, email string) model.CompanyEnrichment {
	out := model.CompanyEnrichment{}
	v, err := r.Abstract.ValidateEmail(ctx, email)
	if err != nil {
		out.AddError(model.SourceAbstract, err)
		return out
	}
	deliverable := v.Deliverable()
	out.EmailDeliverable = &deliverable
	out.EmailScore = v.Score()
	out.AddSource(model.SourceAbstract)
	return out
}

// researchGitHub searches by email first, then by name.
func (r *Researcher) researchGitHub(ctx context.Context, email, name string) model.CompanyEnrichment {
	out := model.CompanyEnrichment{}

	var queries []string
	if email != "" {
		queries = append(queries, email+" in:email")
	}
	if name != "" {
		queries = append(queries, name+" in:name")
	}

	for _, q := range queries {
		res, err := r.GitHub.SearchUsers(ctx, q)
		if err != nil {
			out.AddError(model.SourceGitHub, err)
			continue
		}
		if res.TotalCount == 0 || len(res.Items) == 0 {
			continue
		}
		u, err := r.GitHub.GetUser(ctx, res.Items[0].Login)
		if err != nil {
			out.AddError(model.SourceGitHub, err)
			continue
		}
		out.GitHubLogin = u.Login
		out.GitHubURL = u.HTMLURL
		out.GitHubBio = u.Bio
		out.Followers = u.Followers
		if u.TwitterUsername != "" {
			out.TwitterURL = "https://twitter.com/" + u.TwitterUsername
		}
		out.AddSource(model.SourceGitHub)
		return out
	}
	return out
}
