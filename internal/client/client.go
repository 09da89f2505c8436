// Package client talks to a running triage server over HTTP.
package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vietddude/triage/internal/core/domain"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// Client is a thin wrapper over the HTTP API.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// Predict classifies text on the server.
func (c *Client) Predict(ctx context.Context, text string) (domain.Verdict, error) {
	var verdict domain.Verdict
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&verdict).
		Post("/predict")
	if err := check(resp, err); err != nil {
		return domain.Verdict{}, err
	}
	return verdict, nil
}

// Ingest stores message on the server.
func (c *Client) Ingest(ctx context.Context, message string) (*domain.Incident, error) {
	var inc domain.Incident
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&inc).
		Post("/ingest")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &inc, nil
}

// Incidents lists stored incidents, newest first.
func (c *Client) Incidents(ctx context.Context, limit int, severity domain.Severity) ([]domain.Incident, error) {
	var incidents []domain.Incident
	req := c.http.R().SetContext(ctx).SetResult(&incidents)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if severity != "" {
		req.SetQueryParam("severity", string(severity))
	}
	resp, err := req.Get("/incidents")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return incidents, nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
