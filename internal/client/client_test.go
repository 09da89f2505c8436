package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/triage/internal/core/domain"
)

func TestPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "disk almost full", body["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"storage","severity":"medium"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Predict(context.Background(), "disk almost full")
	require.NoError(t, err)
	assert.Equal(t, domain.Verdict{Category: "storage", Severity: domain.SeverityMedium}, got)
}

func TestIncidentsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/incidents", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "high", r.URL.Query().Get("severity"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"message":"database timeout","category":"database","severity":"high"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Incidents(context.Background(), 5, domain.SeverityHigh)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "database timeout", got[0].Message)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"message required"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Ingest(context.Background(), " ")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "message required")
}

func TestUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Predict(context.Background(), "x")
	assert.ErrorContains(t, err, "request failed")
}
