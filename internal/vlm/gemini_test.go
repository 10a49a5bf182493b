package vlm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/config"
)

func TestResponseText(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"name":`), genai.Text(` "Jo Lee"}`)}},
	}}}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "Jo Lee"}`, text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.EqualError(t, err, "vlm: gemini returned no candidates")

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.EqualError(t, err, "vlm: gemini returned no content")

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
	}}})
	assert.EqualError(t, err, "vlm: gemini returned no text")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	t.Parallel()
	_, err := NewGemini(context.Background(), config.GeminiConfig{})
	assert.EqualError(t, err, "vlm: gemini.key is required")
}
