package pipeline

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/model"
)

func TestProcessBatch_KeepsOrderAndCountsFailures(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png"),
		filepath.Join(dir, "notes.txt"),
		writePNG(t, dir, "c.png"),
		writePNG(t, dir, "d.png"),
	}

	o := &mockOCR{}
	o.On("Extract", mock.Anything, paths[0]).Return(scanOf(scenarioA, 0.95), nil)
	o.On("Extract", mock.Anything, paths[2]).Return(nil, assert.AnError)
	o.On("Extract", mock.Anything, paths[3]).Return(scanOf(scenarioA, 0.90), nil)
	p := newTestPipeline(t, o, nil, nil)

	br := p.ProcessBatch(context.Background(), paths, Options{})
	assert.NotEmpty(t, br.ID)
	assert.Equal(t, 4, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, 2, br.Failed)
	require.Len(t, br.Results, 4)

	assert.Equal(t, "a.png", br.Results[0].Image)
	assert.True(t, br.Results[0].Success)
	assert.Equal(t, model.FailureInvalidFile, br.Results[1].FailureKind)
	assert.Equal(t, model.FailureOCR, br.Results[2].FailureKind)
	assert.Equal(t, "d.png", br.Results[3].Image)
	assert.InDelta(t, 0.90, br.Results[3].OCRConfidence, 1e-9)
}

func TestProcessBatch_Empty(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(t, nil, nil, nil)

	br := p.ProcessBatch(context.Background(), nil, Options{})
	assert.Zero(t, br.Total)
	assert.Empty(t, br.Results)
}

func TestProcessBatch_RespectsWorkerLimit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var paths []string
	for _, n := range []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png", "7.png", "8.png"} {
		paths = append(paths, writePNG(t, dir, n))
	}

	var inFlight, peak atomic.Int32
	o := &mockOCR{}
	o.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		n := inFlight.Add(1)
		for {
			cur := peak.Load()
			if n <= cur || peak.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	}).Return(scanOf(scenarioA, 0.95), nil)
	p := newTestPipeline(t, o, nil, nil)

	br := p.ProcessBatch(context.Background(), paths, Options{})
	assert.Equal(t, 8, br.Successful)
	assert.LessOrEqual(t, peak.Load(), int32(4))
}
