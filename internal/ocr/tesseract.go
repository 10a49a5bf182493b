package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
)

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	zap.L().Debug("ocr: exec",
		zap.String("cmd", name),
		zap.Strings("args", args),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("stdout_bytes", out.Len()),
		zap.Error(err),
	)
	return out.Bytes(), errb.Bytes(), err
}

// Tesseract runs the tesseract CLI in TSV mode, which reports a confidence
// per word. Words are grouped back into lines.
type Tesseract struct {
	binPath string
	lang    string
	psm     int
	runner  Runner
}

// NewTesseract creates a Tesseract extractor. An empty binary path means
// "tesseract" on PATH.
func NewTesseract(cfg config.OCRConfig) *Tesseract {
	t := &Tesseract{binPath: cfg.TesseractPath, lang: cfg.Language, psm: cfg.PSM, runner: execRunner{}}
	if t.binPath == "" {
		t.binPath = "tesseract"
	}
	if t.lang == "" {
		t.lang = "eng"
	}
	return t
}

// Provider returns "tesseract".
func (t *Tesseract) Provider() string { return ProviderTesseract }

// Extract runs tesseract on imagePath.
func (t *Tesseract) Extract(ctx context.Context, imagePath string) (*model.RawScan, error) {
	args := []string{imagePath, "stdout", "-l", t.lang}
	if t.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(t.psm))
	}
	args = append(args, "tsv")

	out, errb, err := t.runner.Run(ctx, t.binPath, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: tesseract failed for %s: %s", imagePath, truncate(string(errb), 512))
	}

	scan := model.NewRawScan(ProviderTesseract, parseTSV(string(out)))
	if len(scan.Lines) == 0 {
		return nil, ErrNoText
	}
	return &scan, nil
}

// TSV columns: level page_num block_num par_num line_num word_num left top
// width height conf text.
const (
	tsvColumns = 12
	colBlock   = 2
	colPar     = 3
	colLine    = 4
	colConf    = 10
	colText    = 11
)

// parseTSV groups word rows into lines in document order. A line's
// confidence is the mean of its word confidences scaled to [0,1]. Rows with
// conf -1 are layout rows and carry no text.
func parseTSV(tsv string) []model.ScanLine {
	type acc struct {
		words []string
		sum   float64
	}
	var order []string
	lines := map[string]*acc{}

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue
		}
		cols := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(cols) < tsvColumns {
			continue
		}
		text := strings.TrimSpace(cols[colText])
		conf, err := strconv.ParseFloat(cols[colConf], 64)
		if err != nil || conf < 0 || text == "" {
			continue
		}
		key := cols[colBlock] + "/" + cols[colPar] + "/" + cols[colLine]
		a, ok := lines[key]
		if !ok {
			a = &acc{}
			lines[key] = a
			order = append(order, key)
		}
		a.words = append(a.words, text)
		a.sum += conf
	}

	out := make([]model.ScanLine, 0, len(order))
	for _, key := range order {
		a := lines[key]
		out = append(out, model.ScanLine{
			Text:       strings.Join(a.words, " "),
			Confidence: a.sum / float64(len(a.words)) / 100,
		})
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
