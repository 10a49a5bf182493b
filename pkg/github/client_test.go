package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUsers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/users", r.URL.Path)
		assert.Equal(t, "jane@acme.io in:email", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		w.Write([]byte(`{"total_count":1,"items":[{"login":"janeroe","html_url":"https://github.com/janeroe","type":"User"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("gh-token", WithBaseURL(srv.URL))
	got, err := client.SearchUsers(context.Background(), "jane@acme.io in:email")

	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalCount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "janeroe", got.Items[0].Login)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/janeroe", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Write([]byte(`{"login":"janeroe","name":"Jane Roe","company":"@acme","bio":"Builds things","twitter_username":"janeroe","html_url":"https://github.com/janeroe","followers":42}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	got, err := client.GetUser(context.Background(), "janeroe")

	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", got.Name)
	assert.Equal(t, "janeroe", got.TwitterUsername)
	assert.Equal(t, 42, got.Followers)
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).GetUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSearchUsers_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"API rate limit exceeded"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).SearchUsers(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
