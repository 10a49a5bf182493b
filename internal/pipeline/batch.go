package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cardscan/internal/model"
)

// ProcessBatch runs ProcessImage over paths with the configured number of
// workers. Results keep the order of paths; a failed card never stops the
// batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, opts Options) model.BatchResult {
	return p.processBatch(ctx, uuid.NewString(), paths, opts, nil)
}

// processBatch calls onResult, when set, after each card finishes. Calls may
// come from several goroutines.
func (p *Pipeline) processBatch(
	ctx context.Context,
	id string,
	paths []string,
	opts Options,
	onResult func(model.Result),
) model.BatchResult {
	log := zap.L().With(zap.String("batch", id))
	log.Info("pipeline: batch started", zap.Int("images", len(paths)), zap.Int("workers", p.workers))

	results := make([]model.Result, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = p.ProcessImage(gCtx, path, opts)
			if onResult != nil {
				onResult(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	br := model.BatchResult{ID: id, Total: len(paths), Results: results}
	for _, r := range results {
		if r.Success {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	log.Info("pipeline: batch complete",
		zap.Int("total", br.Total),
		zap.Int("successful", br.Successful),
		zap.Int("failed", br.Failed),
	)
	return br
}
