// Package ocr turns card images into line-level text with confidences.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
)

// Provider names.
const (
	ProviderTesseract = "tesseract"
	ProviderMistral   = "mistral"
)

// ErrNoText is returned when a provider ran but detected no usable text.
var ErrNoText = eris.New("ocr: no text detected")

// Extractor reads the text on a card image. Implementations are safe for
// concurrent use.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (*model.RawScan, error)
	Provider() string
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig, mistral config.MistralConfig, retry resilience.RetryConfig) (Extractor, error) {
	switch cfg.Provider {
	case ProviderTesseract, "":
		return NewTesseract(cfg), nil
	case ProviderMistral:
		if mistral.Key == "" {
			return nil, eris.New("ocr: mistral provider requires mistral.key")
		}
		return NewMistralOCR(mistral, retry), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
