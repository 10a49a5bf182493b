package vlm

import (
	"context"
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Media types the Messages API accepts for image blocks.
var anthropicMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Anthropic generates with Claude through pkg/anthropic.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates an Anthropic generator.
func NewAnthropic(client anthropic.Client, cfg config.AnthropicConfig) *Anthropic {
	a := &Anthropic{client: client, model: cfg.Model, maxTokens: int64(cfg.MaxTokens)}
	if a.model == "" {
		a.model = defaultAnthropicModel
	}
	if a.maxTokens <= 0 {
		a.maxTokens = 1024
	}
	return a
}

// Generate implements Generator.
func (a *Anthropic) Generate(ctx context.Context, img cardimage.Image, prompt string) (string, error) {
	if !anthropicMediaTypes[img.MediaType] {
		return "", eris.Errorf("vlm: anthropic does not accept %s images", img.MediaType)
	}

	temp := 0.1
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: prompt,
			Images:  []anthropic.Image{{MediaType: img.MediaType, Data: img.Data}},
		}},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return "", resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return "", err
	}
	resp.Usage.LogCost(a.model, "vlm")

	text := resp.Text()
	if text == "" {
		return "", eris.New("vlm: anthropic returned no text")
	}
	return text, nil
}
