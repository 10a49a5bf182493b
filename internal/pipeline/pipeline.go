// Package pipeline sequences correction, extraction, scoring, escalation and
// enrichment for single cards and batches.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/correct"
	"github.com/sells-group/cardscan/internal/enrich"
	"github.com/sells-group/cardscan/internal/escalation"
	"github.com/sells-group/cardscan/internal/extract"
	"github.com/sells-group/cardscan/internal/ocr"
	"github.com/sells-group/cardscan/internal/rules"
	"github.com/sells-group/cardscan/internal/scorer"
	"github.com/sells-group/cardscan/internal/vlm"
)

// Options tune a single run.
type Options struct {
	// Enrich runs company enrichment and fills empty fields from it.
	Enrich bool
	// ForceVLM sends the image straight to the VLM, falling back to OCR
	// when the model is unavailable or fails.
	ForceVLM bool
}

// Pipeline holds the shared, read-only collaborators. It is safe for
// concurrent use.
type Pipeline struct {
	ocr      ocr.Extractor
	vlm      vlm.Extractor
	enricher enrich.Enricher

	images    *cardimage.Validator
	corrector *correct.Corrector
	extractor *extract.Extractor
	scorer    *scorer.Scorer
	policy    *escalation.Policy

	ocrTimeout time.Duration
	workers    int
	maxImages  int
}

// New creates a Pipeline. ocrExt is required; vlmExt and enricher may be nil,
// in which case escalations degrade and enrichment is skipped.
func New(
	cfg *config.Config,
	rs *rules.RuleSet,
	ocrExt ocr.Extractor,
	vlmExt vlm.Extractor,
	enricher enrich.Enricher,
) (*Pipeline, error) {
	if ocrExt == nil {
		return nil, eris.New("pipeline: ocr extractor is required")
	}
	sc, err := scorer.New(rs, cfg.Scoring.Weights)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build scorer")
	}

	workers := cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		ocr:        ocrExt,
		vlm:        vlmExt,
		enricher:   enricher,
		images:     cardimage.NewValidator(cfg.Upload),
		corrector:  correct.New(rs),
		extractor:  extract.New(rs),
		scorer:     sc,
		policy:     escalation.New(cfg.Escalation),
		ocrTimeout: time.Duration(cfg.OCR.TimeoutSecs) * time.Second,
		workers:    workers,
		maxImages:  cfg.Batch.MaxImages,
	}, nil
}

// Images returns the validator applied to card images.
func (p *Pipeline) Images() *cardimage.Validator { return p.images }

// MaxImages is the largest batch accepted; zero means unlimited.
func (p *Pipeline) MaxImages() int { return p.maxImages }

// Status describes the configured collaborators.
type Status struct {
	OCRProvider  string `json:"ocr_provider"`
	VLMAvailable bool   `json:"vlm_available"`
	VLMProvider  string `json:"vlm_provider,omitempty"`
	VLMModel     string `json:"vlm_model,omitempty"`
	Enrichment   bool   `json:"enrichment"`
	Workers      int    `json:"workers"`
}

// Status reports which collaborators are wired.
func (p *Pipeline) Status() Status {
	st := Status{
		OCRProvider: p.ocr.Provider(),
		Enrichment:  p.enricher != nil,
		Workers:     p.workers,
	}
	if p.vlm != nil {
		st.VLMAvailable = true
		st.VLMProvider = p.vlm.Provider()
		st.VLMModel = p.vlm.Model()
	}
	return st
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
