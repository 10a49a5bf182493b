package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/enrich"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
	"github.com/sells-group/cardscan/internal/scorer"
	"github.com/sells-group/cardscan/internal/vlm"
)

// --- OCR Mock ---

type mockOCR struct {
	mock.Mock
}

func (m *mockOCR) Extract(ctx context.Context, imagePath string) (*model.RawScan, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RawScan), args.Error(1)
}

func (m *mockOCR) Provider() string { return "mock" }

// --- VLM Mock ---

type mockVLM struct {
	mock.Mock
}

func (m *mockVLM) Extract(ctx context.Context, img cardimage.Image) (*vlm.Result, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vlm.Result), args.Error(1)
}

func (m *mockVLM) Provider() string { return vlm.ProviderAnthropic }
func (m *mockVLM) Model() string    { return "claude-test" }

// --- Enricher Mock ---

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, c model.ContactRecord) model.CompanyEnrichment {
	args := m.Called(ctx, c)
	return args.Get(0).(model.CompanyEnrichment)
}

// --- Helpers ---

const scenarioA = "JOHN DOE\nSenior Engineer\nAcme Solutions Inc.\njohn.doe@acmesolutions.com\n(555) 123-4567\nwww.acmesolutions.com"

func testConfig() *config.Config {
	return &config.Config{
		Batch:  config.BatchConfig{Workers: 4, MaxImages: 10, JobTTLMins: 60},
		Upload: config.UploadConfig{MaxBytes: 1 << 20, AllowedExtensions: []string{"png", "jpg"}},
		OCR:    config.OCRConfig{Provider: "tesseract", TimeoutSecs: 5},
		Escalation: config.EscalationConfig{
			OCRThreshold:     0.70,
			MinKeyFields:     3,
			DetectCorruption: true,
		},
		Scoring: config.ScoringConfig{Weights: scorer.DefaultWeights()},
	}
}

func newTestPipeline(t *testing.T, o *mockOCR, v vlm.Extractor, e *mockEnricher) *Pipeline {
	t.Helper()
	if o == nil {
		o = &mockOCR{}
	}
	var enricher enrich.Enricher
	if e != nil {
		enricher = e
	}
	p, err := New(testConfig(), rules.Default(), o, v, enricher)
	require.NoError(t, err)
	return p
}

// scanOf builds a scan with every line at conf.
func scanOf(text string, conf float64) *model.RawScan {
	var lines []model.ScanLine
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, model.ScanLine{Text: l, Confidence: conf})
	}
	s := model.NewRawScan("mock", lines)
	return &s
}

// writePNG writes a small valid PNG into dir and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.Black)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	require.NoError(t, png.Encode(f, img))
	return path
}
