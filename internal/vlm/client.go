package vlm

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/resilience"
)

// Generator sends one image plus prompt to a model and returns its reply
// text. Transient failures are returned as resilience.TransientError.
type Generator interface {
	Generate(ctx context.Context, img cardimage.Image, prompt string) (string, error)
}

// Options configure a Client.
type Options struct {
	Provider string
	Model    string
	Timeout  time.Duration
	Retry    resilience.RetryConfig

	// Breaker guards the provider. Nil disables it.
	Breaker *resilience.CircuitBreaker
}

// Client turns model replies into Results. Calls go through the circuit
// breaker first, then the retry loop.
type Client struct {
	gen  Generator
	opts Options
}

// NewClient wraps gen.
func NewClient(gen Generator, opts Options) *Client {
	if opts.Retry.OnRetry == nil {
		opts.Retry.OnRetry = resilience.RetryLogger(opts.Provider, "vlm")
	}
	return &Client{gen: gen, opts: opts}
}

// Provider returns the provider name.
func (c *Client) Provider() string { return c.opts.Provider }

// Model returns the model name.
func (c *Client) Model() string { return c.opts.Model }

// Close releases the generator's resources, if it holds any.
func (c *Client) Close() error {
	if cl, ok := c.gen.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Extract reads img. Parse failures are not retried.
func (c *Client) Extract(ctx context.Context, img cardimage.Image) (*Result, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	prompt := buildPrompt(img)
	call := func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, c.opts.Retry, func(ctx context.Context) (string, error) {
			return c.gen.Generate(ctx, img, prompt)
		})
	}

	var (
		text string
		err  error
	)
	if c.opts.Breaker != nil {
		text, err = resilience.ExecuteVal(ctx, c.opts.Breaker, call)
	} else {
		text, err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	res, err := parseResponse(text)
	if err != nil {
		zap.L().Warn("vlm: unusable response",
			zap.String("provider", c.opts.Provider),
			zap.String("image", img.Name),
			zap.Int("response_len", len(text)),
			zap.Error(err),
		)
		return nil, err
	}

	zap.L().Info("vlm: card read",
		zap.String("provider", c.opts.Provider),
		zap.String("model", c.opts.Model),
		zap.String("image", img.Name),
		zap.Float64("confidence", res.Confidence),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return res, nil
}
