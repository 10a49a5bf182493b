package vlm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/resilience"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini generates with Google Gemini.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, opts ...option.ClientOption) (*Gemini, error) {
	if cfg.Key == "" {
		return nil, eris.New("vlm: gemini.key is required")
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.Key)}, opts...)...)
	if err != nil {
		return nil, eris.Wrap(err, "vlm: create gemini client")
	}
	g := &Gemini{client: client, model: cfg.Model}
	if g.model == "" {
		g.model = defaultGeminiModel
	}
	return g, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, img cardimage.Image, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0.1)
	m.SetMaxOutputTokens(1024)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx,
		genai.Text(prompt),
		&genai.Blob{MIMEType: img.MediaType, Data: img.Data},
	)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && resilience.IsTransientHTTPStatus(gerr.Code) {
			return "", resilience.NewTransientError(err, gerr.Code)
		}
		return "", eris.Wrap(err, "vlm: gemini generate")
	}
	return responseText(resp)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", eris.New("vlm: gemini returned no candidates")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", eris.New("vlm: gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", eris.New("vlm: gemini returned no text")
	}
	return sb.String(), nil
}
