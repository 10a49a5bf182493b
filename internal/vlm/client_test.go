package vlm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, img cardimage.Image, prompt string) (string, error) {
	args := m.Called(ctx, img, prompt)
	return args.String(0), args.Error(1)
}

var testImage = cardimage.Image{Name: "card.png", MediaType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}, Orientation: 1}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, Multiplier: 2}
}

func TestClient_Extract(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, testImage, extractionPrompt).Return(fullReply, nil).Once()

	c := NewClient(gen, Options{Provider: ProviderGemini, Model: "gemini-1.5-flash", Retry: fastRetry()})
	res, err := c.Extract(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, "William Miller", model.Value(res.Name))
	assert.Equal(t, ProviderGemini, c.Provider())
	assert.Equal(t, "gemini-1.5-flash", c.Model())
	gen.AssertExpectations(t)
}

func TestClient_Extract_RetriesTransient(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{}
	transient := resilience.NewTransientError(errors.New("overloaded"), http.StatusServiceUnavailable)
	gen.On("Generate", mock.Anything, testImage, mock.Anything).Return("", transient).Twice()
	gen.On("Generate", mock.Anything, testImage, mock.Anything).Return(fullReply, nil).Once()

	c := NewClient(gen, Options{Provider: ProviderGemini, Retry: fastRetry()})
	res, err := c.Extract(context.Background(), testImage)
	require.NoError(t, err)
	assert.NotNil(t, res)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestClient_Extract_ParseErrorNotRetried(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, testImage, mock.Anything).Return("sorry, no card here", nil)

	c := NewClient(gen, Options{Provider: ProviderGemini, Retry: fastRetry()})
	_, err := c.Extract(context.Background(), testImage)
	assert.True(t, eris.Is(err, ErrUnparseable))
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestClient_Extract_BreakerOpens(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, testImage, mock.Anything).Return("", errors.New("bad request"))

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Hour})
	c := NewClient(gen, Options{Provider: ProviderAnthropic, Retry: fastRetry(), Breaker: breaker})

	for range 2 {
		_, err := c.Extract(context.Background(), testImage)
		require.Error(t, err)
	}
	_, err := c.Extract(context.Background(), testImage)
	assert.True(t, eris.Is(err, resilience.ErrCircuitOpen))
	gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestClient_Extract_Timeout(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, testImage, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	c := NewClient(gen, Options{Provider: ProviderGemini, Timeout: 10 * time.Millisecond, Retry: fastRetry()})
	_, err := c.Extract(context.Background(), testImage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestBuildPrompt_Rotated(t *testing.T) {
	t.Parallel()
	assert.Equal(t, extractionPrompt, buildPrompt(testImage))

	rotated := testImage
	rotated.Orientation = 6
	p := buildPrompt(rotated)
	assert.Contains(t, p, extractionPrompt)
	assert.Contains(t, p, "EXIF orientation 6")
}

func TestNewExtractor_Disabled(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor(context.Background(), &config.Config{VLM: config.VLMConfig{Provider: ProviderNone}}, nil)
	require.NoError(t, err)
	assert.Nil(t, ext)

	ext, err = NewExtractor(context.Background(), &config.Config{VLM: config.VLMConfig{Provider: ProviderGemini}}, nil)
	require.NoError(t, err)
	assert.Nil(t, ext, "no key means no fallback")
}

func TestNewExtractor_Anthropic(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		VLM:       config.VLMConfig{Provider: ProviderAnthropic, TimeoutSecs: 30},
		Anthropic: config.AnthropicConfig{Key: "sk-test", Model: "claude-haiku-4-5-20251001", MaxTokens: 512},
	}
	breakers := resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig())
	ext, err := NewExtractor(context.Background(), cfg, breakers)
	require.NoError(t, err)
	require.NotNil(t, ext)
	assert.Equal(t, ProviderAnthropic, ext.Provider())
	assert.Equal(t, "claude-haiku-4-5-20251001", ext.Model())

	statuses := breakers.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, ProviderAnthropic, statuses[0].Provider)
}

type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*anthropic.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAnthropic_Generate(t *testing.T) {
	t.Parallel()
	client := &mockAnthropic{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		if len(req.Messages) != 1 || len(req.Messages[0].Images) != 1 {
			return false
		}
		img := req.Messages[0].Images[0]
		return req.Model == defaultAnthropicModel &&
			req.MaxTokens == 1024 &&
			img.MediaType == "image/png" &&
			req.Messages[0].Content == "prompt"
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: fullReply}},
	}, nil)

	a := NewAnthropic(client, config.AnthropicConfig{})
	text, err := a.Generate(context.Background(), testImage, "prompt")
	require.NoError(t, err)
	assert.Equal(t, fullReply, text)
	client.AssertExpectations(t)
}

func TestAnthropic_Generate_Errors(t *testing.T) {
	t.Parallel()

	a := NewAnthropic(&mockAnthropic{}, config.AnthropicConfig{})
	bmp := testImage
	bmp.MediaType = "image/bmp"
	_, err := a.Generate(context.Background(), bmp, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image/bmp")

	empty := &mockAnthropic{}
	empty.On("CreateMessage", mock.Anything, mock.Anything).Return(&anthropic.MessageResponse{}, nil)
	_, err = NewAnthropic(empty, config.AnthropicConfig{}).Generate(context.Background(), testImage, "prompt")
	assert.EqualError(t, err, "vlm: anthropic returned no text")

	failing := &mockAnthropic{}
	failing.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("anthropic: create message: boom"))
	_, err = NewAnthropic(failing, config.AnthropicConfig{}).Generate(context.Background(), testImage, "prompt")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}
