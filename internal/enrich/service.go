package enrich

import (
	"context"
	"time"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

// Enricher gathers enrichment for a contact. It never fails; per-source
// errors are reported in CompanyEnrichment.Errors.
type Enricher interface {
	Enrich(ctx context.Context, c model.ContactRecord) model.CompanyEnrichment
}

// Service runs the company enricher and the researcher and combines their
// output, company data first.
type Service struct {
	Company    *CompanyEnricher
	Researcher *Researcher
	Timeout    time.Duration
}

// NewService builds a Service from config.
func NewService(rs *rules.RuleSet, cfg *config.Config) *Service {
	return &Service{
		Company:    NewCompanyEnricher(rs, cfg.Enrich),
		Researcher: NewResearcher(rs, cfg),
		Timeout:    time.Duration(cfg.Enrich.TimeoutSecs) * time.Second,
	}
}

// Enrich implements Enricher.
func (s *Service) Enrich(ctx context.Context, c model.ContactRecord) model.CompanyEnrichment {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	out := model.CompanyEnrichment{Sources: []string{}, Errors: []string{}}
	if s.Company != nil {
		out.Absorb(s.Company.Enrich(ctx, model.Value(c.Company), model.Value(c.Email), model.Value(c.Website)))
	}
	if s.Researcher != nil {
		out.Absorb(s.Researcher.Research(ctx, c))
	}
	return out
}
