package enrich

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxPageBytes caps how much of a homepage is read for meta tags.
const maxPageBytes = 1 << 20

// adaptiveLimiter wraps a rate.Limiter that speeds up by 20% on success (up
// to 2x the initial rate) and halves on 429 (down to a quarter).
type adaptiveLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	current rate.Limit
	max     rate.Limit
	min     rate.Limit
}

func newAdaptiveLimiter(initial rate.Limit, burst int) *adaptiveLimiter {
	return &adaptiveLimiter{
		limiter: rate.NewLimiter(initial, burst),
		current: initial,
		max:     initial * 2,
		min:     initial / 4,
	}
}

func (a *adaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *adaptiveLimiter) onSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = min(a.current*1.2, a.max)
	a.limiter.SetLimit(a.current)
}

func (a *adaptiveLimiter) onRateLimit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = max(a.current*0.5, a.min)
	a.limiter.SetLimit(a.current)
	zap.L().Warn("enrich: reducing scrape rate after 429",
		zap.Float64("new_rate", float64(a.current)),
	)
}

func (a *adaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// pageFetcher downloads company homepages under one shared rate limit.
type pageFetcher struct {
	client    *http.Client
	limiter   *adaptiveLimiter
	userAgent string
}

func newPageFetcher(rps float64, timeout time.Duration, userAgent string) *pageFetcher {
	if rps <= 0 {
		rps = 2
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	burst := max(int(rps), 1)
	return &pageFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   newAdaptiveLimiter(rate.Limit(rps), burst),
		userAgent: userAgent,
	}
}

// Fetch returns up to maxPageBytes of the HTML at rawURL.
func (f *pageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, eris.Wrapf(err, "enrich: bad url %q", rawURL)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "enrich: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: create request")
	}
	req.Header.Set("Accept", "text/html")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: fetch %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		f.limiter.onRateLimit()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("enrich: fetch %s: status %d", rawURL, resp.StatusCode)
	}
	f.limiter.onSuccess()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read %s", rawURL)
	}
	return body, nil
}
