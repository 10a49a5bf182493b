// Package github provides a minimal client for GitHub user search and
// profile lookup.
package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.github.com"

// Client defines the GitHub operations used for contact research.
type Client interface {
	// SearchUsers runs a user search query such as "jane@acme.io in:email".
	SearchUsers(ctx context.Context, query string) (*SearchResult, error)
	// GetUser fetches a public profile by login.
	GetUser(ctx context.Context, login string) (*User, error)
}

// SearchResult is the response of GET /search/users.
type SearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []SearchItem `json:"items"`
}

// SearchItem is one search hit.
type SearchItem struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
	Type    string `json:"type"`
}

// User is the response of GET /users/{login}.
type User struct {
	Login           string `json:"login"`
	Name            string `json:"name"`
	Company         string `json:"company"`
	Blog            string `json:"blog"`
	Location        string `json:"location"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	TwitterUsername string `json:"twitter_username"`
	HTMLURL         string `json:"html_url"`
	AvatarURL       string `json:"avatar_url"`
	PublicRepos     int    `json:"public_repos"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL.
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a GitHub client. An empty token makes unauthenticated
// requests, which GitHub rate-limits heavily.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchUsers(ctx context.Context, query string) (*SearchResult, error) {
	var out SearchResult
	if err := c.get(ctx, "/search/users?"+url.Values{"q": {query}}.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) GetUser(ctx context.Context, login string) (*User, error) {
	var out User
	if err := c.get(ctx, "/users/"+url.PathEscape(login), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "github: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "github: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("github: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return eris.Wrap(err, "github: unmarshal response")
	}
	return nil
}
