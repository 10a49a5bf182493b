package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
)

const (
	defaultMistralBaseURL = "https://api.mistral.ai/v1"
	defaultMistralModel   = "mistral-ocr-latest"

	// mistralLineConfidence is assigned to every line; the API reports no
	// confidence of its own.
	mistralLineConfidence = 0.90
)

// MistralOCR reads card images with the Mistral OCR API.
type MistralOCR struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	retry    resilience.RetryConfig
}

// NewMistralOCR creates a MistralOCR extractor.
func NewMistralOCR(cfg config.MistralConfig, retry resilience.RetryConfig) *MistralOCR {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultMistralBaseURL
	}
	m := &MistralOCR{
		apiKey:   cfg.Key,
		model:    cfg.Model,
		endpoint: base + "/ocr",
		client:   &http.Client{},
		retry:    retry,
	}
	if m.model == "" {
		m.model = defaultMistralModel
	}
	m.retry.OnRetry = resilience.RetryLogger(ProviderMistral, "ocr")
	return m
}

type mistralOCRRequest struct {
	Model    string             `json:"model"`
	Document mistralOCRDocument `json:"document"`
}

type mistralOCRDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type mistralOCRResponse struct {
	Pages []mistralOCRPage `json:"pages"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// Provider returns "mistral".
func (m *MistralOCR) Provider() string { return ProviderMistral }

// Extract sends the image as a data URL and splits the returned markdown
// into lines.
func (m *MistralOCR) Extract(ctx context.Context, imagePath string) (*model.RawScan, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: read image %s", imagePath)
	}

	body, err := json.Marshal(mistralOCRRequest{
		Model: m.model,
		Document: mistralOCRDocument{
			Type:     "image_url",
			ImageURL: "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ocr: marshal mistral request")
	}

	resp, err := resilience.DoVal(ctx, m.retry, func(ctx context.Context) (*mistralOCRResponse, error) {
		return m.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}

	var segments []model.ScanLine
	for _, page := range resp.Pages {
		for _, line := range strings.Split(page.Markdown, "\n") {
			if text := stripMarkdown(line); text != "" {
				segments = append(segments, model.ScanLine{Text: text, Confidence: mistralLineConfidence})
			}
		}
	}
	scan := model.NewRawScan(ProviderMistral, segments)
	if len(scan.Lines) == 0 {
		return nil, ErrNoText
	}
	return &scan, nil
}

func (m *MistralOCR) post(ctx context.Context, body []byte) (*mistralOCRResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create mistral request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: mistral API call")
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := resilience.CheckStatus(resp, "ocr: mistral"); err != nil {
		return nil, err
	}

	var out mistralOCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "ocr: unmarshal mistral response")
	}
	return &out, nil
}

var (
	mdImageRe    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasisRe = regexp.MustCompile(`[*_` + "`" + `]{1,3}`)
	mdLeaderRe   = regexp.MustCompile(`^\s*(?:#{1,6}|[-+>]|\d+\.)\s+`)
	mdRuleRe     = regexp.MustCompile(`^\s*(?:[-*_]\s*){3,}$|^\s*\|?(?:\s*:?-+:?\s*\|)+\s*$`)
)

// stripMarkdown reduces one markdown line to its visible text. Table cells
// become space-separated.
func stripMarkdown(line string) string {
	if mdRuleRe.MatchString(line) {
		return ""
	}
	line = mdImageRe.ReplaceAllString(line, "")
	line = mdLinkRe.ReplaceAllString(line, "$1")
	line = mdLeaderRe.ReplaceAllString(line, "")
	line = mdEmphasisRe.ReplaceAllStringFunc(line, func(s string) string {
		// Underscores inside words (email local parts, handles) are text.
		if strings.Contains(s, "_") && !strings.ContainsAny(s, "*`") {
			return s
		}
		return ""
	})
	line = strings.ReplaceAll(line, "|", " ")
	return strings.Join(strings.Fields(line), " ")
}
