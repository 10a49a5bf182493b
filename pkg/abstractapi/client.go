// Package abstractapi provides a client for the Abstract email validation API.
package abstractapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://emailvalidation.abstractapi.com/v1"

// Client validates email addresses.
type Client interface {
	ValidateEmail(ctx context.Context, email string) (*Validation, error)
}

// Flag is Abstract's boolean wrapper, e.g. {"value": true, "text": "TRUE"}.
type Flag struct {
	Value bool   `json:"value"`
	Text  string `json:"text"`
}

// Validation is the response of GET /v1/.
type Validation struct {
	Email          string `json:"email"`
	Autocorrect    string `json:"autocorrect"`
	Deliverability string `json:"deliverability"` // DELIVERABLE, UNDELIVERABLE, UNKNOWN
	QualityScore   string `json:"quality_score"`
	IsValidFormat  Flag   `json:"is_valid_format"`
	IsFreeEmail    Flag   `json:"is_free_email"`
	IsDisposable   Flag   `json:"is_disposable_email"`
	IsRoleEmail    Flag   `json:"is_role_email"`
	IsCatchall     Flag   `json:"is_catchall_email"`
	IsMXFound      Flag   `json:"is_mx_found"`
	IsSMTPValid    Flag   `json:"is_smtp_valid"`
}

// Deliverable reports whether Abstract rated the address deliverable.
func (v *Validation) Deliverable() bool {
	return v.Deliverability == "DELIVERABLE"
}

// Score parses QualityScore, returning 0 when it is missing or malformed.
func (v *Validation) Score() float64 {
	f, err := strconv.ParseFloat(v.QualityScore, 64)
	if err != nil {
		return 0
	}
	return f
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Abstract email validation client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ValidateEmail(ctx context.Context, email string) (*Validation, error) {
	q := url.Values{"api_key": {c.apiKey}, "email": {email}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "abstractapi: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("abstractapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out Validation
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "abstractapi: unmarshal response")
	}
	return &out, nil
}
