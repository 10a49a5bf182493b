package abstractapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "jane@acme.io", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"email": "jane@acme.io",
			"autocorrect": "",
			"deliverability": "DELIVERABLE",
			"quality_score": "0.90",
			"is_valid_format": {"value": true, "text": "TRUE"},
			"is_free_email": {"value": false, "text": "FALSE"},
			"is_disposable_email": {"value": false, "text": "FALSE"},
			"is_role_email": {"value": false, "text": "FALSE"},
			"is_catchall_email": {"value": false, "text": "FALSE"},
			"is_mx_found": {"value": true, "text": "TRUE"},
			"is_smtp_valid": {"value": true, "text": "TRUE"}
		}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.ValidateEmail(context.Background(), "jane@acme.io")

	require.NoError(t, err)
	assert.True(t, got.Deliverable())
	assert.InDelta(t, 0.90, got.Score(), 1e-9)
	assert.True(t, got.IsValidFormat.Value)
	assert.False(t, got.IsFreeEmail.Value)
}

func TestValidation_Score(t *testing.T) {
	t.Parallel()
	assert.Zero(t, (&Validation{}).Score())
	assert.Zero(t, (&Validation{QualityScore: "n/a"}).Score())
	assert.InDelta(t, 0.15, (&Validation{QualityScore: "0.15"}).Score(), 1e-9)
	assert.False(t, (&Validation{Deliverability: "UNKNOWN"}).Deliverable())
}

func TestValidateEmail_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API key"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("bad", WithBaseURL(srv.URL))
	_, err := client.ValidateEmail(context.Background(), "jane@acme.io")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestValidateEmail_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ValidateEmail(context.Background(), "jane@acme.io")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "abstractapi: unmarshal response")
}
