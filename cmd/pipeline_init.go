package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/enrich"
	"github.com/sells-group/cardscan/internal/ocr"
	"github.com/sells-group/cardscan/internal/pipeline"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/internal/rules"
	"github.com/sells-group/cardscan/internal/vlm"
)

// pipelineEnv holds the initialized collaborators and the pipeline needed by
// the extract/batch/serve commands.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Rules    *rules.RuleSet
	VLM      vlm.Extractor // may be nil
	Breakers *resilience.ServiceBreakers
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if c, ok := pe.VLM.(io.Closer); ok {
		if err := c.Close(); err != nil {
			zap.L().Warn("close vlm client", zap.Error(err))
		}
	}
}

// initPipeline validates config for mode, loads the rule set, builds the OCR,
// VLM and enrichment collaborators and wires the Pipeline. Callers should
// defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	rs, err := rules.LoadOrDefault(cfg.RulesPath)
	if err != nil {
		return nil, eris.Wrap(err, "load rules")
	}

	retry := resilience.FromRetryConfig(cfg.Retry)
	ocrExt, err := ocr.NewExtractor(cfg.OCR, cfg.Mistral, retry)
	if err != nil {
		return nil, eris.Wrap(err, "init ocr")
	}

	breakers := resilience.NewServiceBreakers(resilience.FromCircuitConfig(cfg.Circuit))
	vlmExt, err := vlm.NewExtractor(ctx, cfg, breakers)
	if err != nil {
		return nil, eris.Wrap(err, "init vlm")
	}
	if vlmExt == nil {
		zap.L().Warn("vlm fallback disabled, escalated cards will keep the heuristic result",
			zap.String("provider", cfg.VLM.Provider),
		)
	} else {
		zap.L().Info("vlm fallback enabled",
			zap.String("provider", vlmExt.Provider()),
			zap.String("model", vlmExt.Model()),
		)
	}

	svc := enrich.NewService(rs, cfg)
	zap.L().Debug("enrichment sources", zap.Strings("researcher", svc.Researcher.Sources()))

	p, err := pipeline.New(cfg, rs, ocrExt, vlmExt, svc)
	if err != nil {
		if c, ok := vlmExt.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}

	zap.L().Info("pipeline ready",
		zap.String("ocr", ocrExt.Provider()),
		zap.Int("workers", cfg.Batch.Workers),
	)
	return &pipelineEnv{
		Pipeline: p,
		Rules:    rs,
		VLM:      vlmExt,
		Breakers: breakers,
	}, nil
}
