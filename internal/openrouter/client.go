// Package openrouter talks to the upstream provider catalog: a model-list
// endpoint and a per-model endpoints-list endpoint, both behind a bearer
// credential. Resilience (timeouts, retries, classification) is delegated
// entirely to the fetch client.
package openrouter

import (
	"context"
	"fmt"
	"net/http"

	"benchboard/internal/fetch"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// CatalogAPI is the upstream surface the refresh orchestrator depends on.
type CatalogAPI interface {
	ListModels(ctx context.Context) ([]Model, error)
	ListEndpoints(ctx context.Context, modelID string) ([]Endpoint, error)
}

type Client struct {
	baseURL string
	apiKey  string
	fetcher *fetch.Client
}

func NewClient(baseURL, apiKey string, fetcher *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, fetcher: fetcher}
}

func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var resp modelsResponse
	req := fetch.Request{
		URL:    c.baseURL + "/models",
		Header: c.authHeader(),
	}
	if err := c.fetcher.GetJSON(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) ListEndpoints(ctx context.Context, modelID string) ([]Endpoint, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	var resp endpointsResponse
	req := fetch.Request{
		URL:    c.baseURL + "/models/" + modelID + "/endpoints",
		Header: c.authHeader(),
	}
	if err := c.fetcher.GetJSON(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("list endpoints for %s: %w", modelID, err)
	}
	return resp.Data.Endpoints, nil
}

func (c *Client) authHeader() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}
