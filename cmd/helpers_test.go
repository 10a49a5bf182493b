package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/pipeline"
	"github.com/sells-group/cardscan/internal/rules"
	"github.com/sells-group/cardscan/internal/scorer"
)

const cardText = "JOHN DOE\nSenior Engineer\nAcme Solutions Inc.\njohn.doe@acmesolutions.com\n(555) 123-4567\nwww.acmesolutions.com"

// stubOCR returns the same text for every image.
type stubOCR struct {
	text string
	conf float64
}

func (s stubOCR) Extract(_ context.Context, _ string) (*model.RawScan, error) {
	var lines []model.ScanLine
	for _, l := range strings.Split(s.text, "\n") {
		lines = append(lines, model.ScanLine{Text: l, Confidence: s.conf})
	}
	scan := model.NewRawScan("stub", lines)
	return &scan, nil
}

func (s stubOCR) Provider() string { return "stub" }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Batch:  config.BatchConfig{Workers: 2, MaxImages: 3, JobTTLMins: 60},
		Upload: config.UploadConfig{MaxBytes: 1 << 20, AllowedExtensions: []string{"png", "jpg"}},
		OCR:    config.OCRConfig{Provider: "tesseract", TimeoutSecs: 5},
		VLM:    config.VLMConfig{Provider: "none", TimeoutSecs: 5},
		Escalation: config.EscalationConfig{
			OCRThreshold:     0.70,
			MinKeyFields:     3,
			DetectCorruption: true,
		},
		Scoring: config.ScoringConfig{Weights: scorer.DefaultWeights()},
	}
}

func testPipeline(t *testing.T, c *config.Config) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(c, rules.Default(), stubOCR{text: cardText, conf: 0.95}, nil, nil)
	require.NoError(t, err)
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.Black)
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o600))
	return path
}
