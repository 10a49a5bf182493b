// Package hunter provides a client for the Hunter.io email verifier and
// domain search APIs.
package hunter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// Client defines the Hunter.io operations.
type Client interface {
	// VerifyEmail checks deliverability of one address.
	VerifyEmail(ctx context.Context, email string) (*Verification, error)
	// DomainSearch returns the organization behind a domain.
	DomainSearch(ctx context.Context, domain string) (*Domain, error)
}

// Verification is the data block of GET /email-verifier.
type Verification struct {
	Email  string `json:"email"`
	Status string `json:"status"` // valid, invalid, accept_all, webmail, disposable, unknown
	Result string `json:"result"` // deliverable, undeliverable, risky
	Score  int    `json:"score"`
}

// Valid reports whether Hunter considers the address valid.
func (v *Verification) Valid() bool {
	return v.Status == "valid"
}

// Domain is the data block of GET /domain-search.
type Domain struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	Description  string  `json:"description"`
	Industry     string  `json:"industry"`
	Country      string  `json:"country"`
	LinkedIn     string  `json:"linkedin"`
	Twitter      string  `json:"twitter"`
	Facebook     string  `json:"facebook"`
	Webmail      bool    `json:"webmail"`
	Emails       []Email `json:"emails"`
}

// Email is one address Hunter knows for a domain.
type Email struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Option configures the Hunter client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithBackoff sets the first retry delay.
func WithBackoff(d time.Duration) Option {
	return func(c *httpClient) {
		c.backoff = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	backoff time.Duration
	http    *http.Client
}

// NewClient creates a new Hunter.io client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		backoff: time.Second,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes a GET with exponential backoff on 429 and 5xx. It returns
// the body and status code of the last response.
func (c *httpClient) retryDo(ctx context.Context, reqURL string) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := c.backoff

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, eris.Wrap(err, "hunter: create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err == nil {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, resp.StatusCode, eris.Wrap(readErr, "hunter: read response body")
			}
			if !retryableStatusCode(resp.StatusCode) || attempt == maxAttempts {
				return body, resp.StatusCode, nil
			}
			err = eris.Errorf("hunter: status %d: %s", resp.StatusCode, string(body))
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, 0, lastErr
}

func get[T any](ctx context.Context, c *httpClient, path string, params url.Values) (*T, error) {
	params.Set("api_key", c.apiKey)
	body, status, err := c.retryDo(ctx, c.baseURL+path+"?"+params.Encode())
	if err != nil {
		return nil, eris.Wrapf(err, "hunter: %s request failed", path)
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("hunter: %s unexpected status %d: %s", path, status, truncate(body))
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrapf(err, "hunter: unmarshal %s response", path)
	}
	return &env.Data, nil
}

func (c *httpClient) VerifyEmail(ctx context.Context, email string) (*Verification, error) {
	return get[Verification](ctx, c, "/email-verifier", url.Values{"email": {email}})
}

func (c *httpClient) DomainSearch(ctx context.Context, domain string) (*Domain, error) {
	return get[Domain](ctx, c, "/domain-search", url.Values{"domain": {domain}})
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
