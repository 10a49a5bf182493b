// Package vlm reads business cards with a vision-language model. It is the
// fallback used when heuristic OCR parsing is not trusted.
package vlm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/escalation"
	"github.com/sells-group/cardscan/internal/extract"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// maxConfidence caps the confidence of a VLM read.
const maxConfidence = 0.95

// Errors returned by Extract.
var (
	ErrUnparseable = eris.New("vlm: response is not a contact object")
	ErrEmpty       = eris.New("vlm: response contains no contact fields")
)

// Result is the contact read from a card image by the model.
type Result struct {
	Name     *string  `json:"name"`
	Title    *string  `json:"title"`
	Company  *string  `json:"company"`
	Email    *string  `json:"email"`
	Phone    []string `json:"phone"`
	Website  *string  `json:"website"`
	Address  *string  `json:"address"`
	LinkedIn *string  `json:"linkedin"`

	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
}

// Extractor reads a card image into a Result.
type Extractor interface {
	Extract(ctx context.Context, img cardimage.Image) (*Result, error)
	Provider() string
	Model() string
}

// computeConfidence is the share of name, email, phone, company and title
// the model filled, scaled to at most 0.95.
func (r *Result) computeConfidence() float64 {
	n := 0
	for _, v := range []*string{r.Name, r.Email, r.Company, r.Title} {
		if v != nil && strings.TrimSpace(*v) != "" {
			n++
		}
	}
	if len(r.Phone) > 0 {
		n++
	}
	return min(float64(n)/5, 1) * maxConfidence
}

// Contact converts the result into a ContactRecord with normalized phone
// numbers.
func (r *Result) Contact() model.ContactRecord {
	rec := model.ContactRecord{
		Name:            r.Name,
		Title:           r.Title,
		Company:         r.Company,
		Email:           r.Email,
		Website:         r.Website,
		Address:         r.Address,
		LinkedIn:        r.LinkedIn,
		Phone:           extract.NormalizePhones(r.Phone),
		RawText:         r.RawText,
		ConfidenceScore: r.Confidence,
	}
	out := rec.Clone()
	out.SplitName()
	return out
}

// Fallback adapts the result for escalation.Resolve.
func (r *Result) Fallback() *escalation.Fallback {
	return &escalation.Fallback{
		Contact:    r.Contact(),
		RawText:    r.RawText,
		Confidence: r.Confidence,
	}
}

// NewExtractor builds the Extractor named by cfg.VLM.Provider. It returns
// (nil, nil) when the provider is "none" or its key is unset, meaning no
// fallback is available.
func NewExtractor(ctx context.Context, cfg *config.Config, breakers *resilience.ServiceBreakers) (Extractor, error) {
	if cfg.VLM.Provider == ProviderNone || cfg.VLMKey() == "" {
		return nil, nil
	}

	var gen Generator
	var modelName string
	switch cfg.VLM.Provider {
	case ProviderGemini:
		g, err := NewGemini(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		gen, modelName = g, g.model
	case ProviderAnthropic:
		a := NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		gen, modelName = a, a.model
	default:
		return nil, eris.Errorf("vlm: unknown provider %q", cfg.VLM.Provider)
	}

	var breaker *resilience.CircuitBreaker
	if breakers != nil {
		breaker = breakers.Get(cfg.VLM.Provider)
	}
	return NewClient(gen, Options{
		Provider: cfg.VLM.Provider,
		Model:    modelName,
		Timeout:  time.Duration(cfg.VLM.TimeoutSecs) * time.Second,
		Retry:    resilience.FromRetryConfig(cfg.Retry),
		Breaker:  breaker,
	}), nil
}
