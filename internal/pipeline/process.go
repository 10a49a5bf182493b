package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/correct"
	"github.com/sells-group/cardscan/internal/enrich"
	"github.com/sells-group/cardscan/internal/escalation"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/vlm"
)

// sourceEnrichment marks fields filled by enrichment in Result.Provenance.
const sourceEnrichment = "enrichment"

// card is the state carried from extraction to the final Result.
type card struct {
	contact model.ContactRecord
	rawText string
	method  string
	report  model.EscalationReport

	// ocrConf scales the overall score when the text came from OCR.
	ocrConf *float64
	// vlmConf replaces the overall score when the VLM produced the record.
	vlmConf *float64
}

// ProcessText parses already-recognized text. ocrConfidence is optional; when
// set it feeds escalation and scales the overall score. There is no image to
// escalate with, so an escalated text card is reported as degraded.
func (p *Pipeline) ProcessText(ctx context.Context, text string, ocrConfidence *float64, opts Options) (res model.Result) {
	res = newResult()
	res.Method = model.MethodText
	log := zap.L().With(zap.String("card", res.ID), zap.String("method", model.MethodText))
	start := time.Now()
	defer p.finish(log, &res, start)

	if strings.TrimSpace(text) == "" {
		fail(&res, model.FailureMalformed, "no text provided")
		return res
	}

	corrected := p.corrector.Correct(text)
	c := card{
		contact: p.extractor.Extract(corrected),
		rawText: corrected,
		method:  model.MethodText,
		ocrConf: ocrConfidence,
	}
	d := p.policy.Decide(escalation.Input{Contact: c.contact, OCRConfidence: ocrConfidence})
	out := escalation.Resolve(c.contact, d, nil, nil)
	c.contact = out.Contact
	c.report = out.Report

	p.complete(ctx, &res, c, opts)
	return res
}

// ProcessImage runs the full pipeline on the card image at path.
func (p *Pipeline) ProcessImage(ctx context.Context, path string, opts Options) (res model.Result) {
	res = newResult()
	res.Image = filepath.Base(path)
	log := zap.L().With(zap.String("card", res.ID), zap.String("image", res.Image))
	start := time.Now()
	defer p.finish(log, &res, start)

	img, err := p.images.Load(path)
	if err != nil {
		fail(&res, model.FailureInvalidFile, err.Error())
		return res
	}

	if opts.ForceVLM {
		if c, ok := p.forcedVLM(ctx, log, img); ok {
			p.complete(ctx, &res, c, opts)
			return res
		}
	}

	res.Method = model.MethodOCR
	ocrCtx, cancel := withTimeout(ctx, p.ocrTimeout)
	scan, err := p.ocr.Extract(ocrCtx, path)
	cancel()
	if err != nil {
		log.Warn("pipeline: ocr failed", zap.String("provider", p.ocr.Provider()), zap.Error(err))
		fail(&res, model.FailureOCR, err.Error())
		return res
	}

	res.OCRConfidence = scan.Confidence
	var kept []string
	for _, l := range p.corrector.CorrectScan(*scan).Lines {
		if correct.Usable(l.Text) {
			kept = append(kept, l.Text)
		}
	}
	if len(kept) == 0 {
		fail(&res, model.FailureOCR, "ocr produced no usable text")
		return res
	}
	text := strings.Join(kept, "\n")

	conf := scan.Confidence
	c := card{
		contact: p.extractor.Extract(text),
		rawText: text,
		method:  model.MethodOCR,
		ocrConf: &conf,
	}

	d := p.policy.Decide(escalation.Input{Contact: c.contact, OCRConfidence: &conf})
	var fb *escalation.Fallback
	var fbErr error
	if d.Escalated() && p.vlm != nil {
		var r *vlm.Result
		r, fbErr = p.vlm.Extract(ctx, img)
		if fbErr == nil {
			fb = r.Fallback()
		}
	}
	out := escalation.Resolve(c.contact, d, fb, fbErr)
	c.contact = out.Contact
	c.method = out.Method
	c.report = out.Report
	if out.FallbackConfidence != nil {
		c.vlmConf = out.FallbackConfidence
		c.rawText = out.RawText
	}

	p.complete(ctx, &res, c, opts)
	return res
}

// forcedVLM reads img with the VLM directly. ok is false when the caller
// should fall back to OCR.
func (p *Pipeline) forcedVLM(ctx context.Context, log *zap.Logger, img cardimage.Image) (card, bool) {
	if p.vlm == nil {
		log.Warn("pipeline: force_vlm requested but no vlm is configured, using ocr")
		return card{}, false
	}
	r, err := p.vlm.Extract(ctx, img)
	if err != nil {
		log.Warn("pipeline: forced vlm failed, using ocr", zap.Error(err))
		return card{}, false
	}
	fb := r.Fallback()
	return card{
		contact: fb.Contact,
		rawText: fb.RawText,
		method:  model.MethodVLM,
		report:  p.policy.Force().Report(),
		vlmConf: &fb.Confidence,
	}, true
}

// complete enriches, scores and classifies c into res.
func (p *Pipeline) complete(ctx context.Context, res *model.Result, c card, opts Options) {
	res.Method = c.method
	res.RawText = c.rawText
	res.Escalation = c.report
	if c.ocrConf != nil {
		res.OCRConfidence = *c.ocrConf
	}

	prov := model.Provenance{}
	prov.FromRecord(c.method, &c.contact)

	if opts.Enrich && p.enricher != nil && c.contact.HasContact() {
		e := p.enricher.Enrich(ctx, c.contact)
		filled := enrich.MergeInto(&c.contact, e)
		prov.Mark(sourceEnrichment, filled...)
		res.Enrichment = &e
	}

	var fc model.FieldConfidence
	if c.ocrConf != nil {
		fc = p.scorer.ScoreWithOCR(c.contact, *c.ocrConf)
	} else {
		fc = p.scorer.Score(c.contact)
	}
	if c.vlmConf != nil {
		fc.Overall = *c.vlmConf
	}

	c.contact.RawText = c.rawText
	c.contact.ConfidenceScore = fc.Overall
	res.Contact = c.contact
	res.FieldConfidence = fc
	res.Provenance = prov

	if !c.contact.HasContact() {
		// Partial fields are kept so callers can see what was read.
		res.FailureKind = model.FailureNoContact
		res.Error = "no name, email or phone found"
		return
	}
	res.Success = true
}

// finish stamps timing, converts a panic into an internal failure and logs
// the outcome. It must be deferred.
func (p *Pipeline) finish(log *zap.Logger, res *model.Result, start time.Time) {
	if r := recover(); r != nil {
		log.Error("pipeline: recovered panic", zap.Any("panic", r), zap.Stack("stack"))
		fail(res, model.FailureInternal, fmt.Sprintf("internal error: %v", r))
	}
	res.ProcessingTimeMS = time.Since(start).Milliseconds()
	res.ProcessedAt = time.Now().UTC()

	if !res.Success {
		log.Info("pipeline: card failed",
			zap.String("failure", string(res.FailureKind)),
			zap.String("error", res.Error),
			zap.Int64("duration_ms", res.ProcessingTimeMS),
		)
		return
	}
	log.Info("pipeline: card processed",
		zap.String("method", res.Method),
		zap.String("escalation", res.Escalation.State),
		zap.Bool("degraded", res.Escalation.Degraded),
		zap.Float64("confidence", res.Contact.ConfidenceScore),
		zap.Int64("duration_ms", res.ProcessingTimeMS),
	)
}

func newResult() model.Result {
	return model.Result{ID: uuid.NewString()}
}

// fail resets res to an empty, zero-confidence failure.
func fail(res *model.Result, kind model.FailureKind, msg string) {
	res.Success = false
	res.FailureKind = kind
	res.Error = msg
	res.Contact = model.ContactRecord{RawText: res.RawText}
	res.FieldConfidence = model.FieldConfidence{}
	res.Enrichment = nil
	res.Provenance = nil
}
