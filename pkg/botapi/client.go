// Package botapi is a thin HTTP client for the VK Teams Bot API. The engine
// treats it as an external collaborator: polling for updates and sending
// messages, with typed transport errors and no retry logic of its own (the
// dispatcher owns the retry policy).
package botapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://myteam.mail.ru"
	basePath       = "/bot/v1/"

	// maxResponseBytes bounds reads from API responses.
	maxResponseBytes = 10 << 20
)

// Client is a thin HTTP wrapper around the VK Teams Bot API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Bot API client. baseURL may be empty for the public
// endpoint. The HTTP timeout must exceed the long-poll window; requests are
// otherwise bounded by their context.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Send performs a raw Bot API call and returns the response body. It
// implements the generic send(method, params) collaborator surface; typed
// helpers in this package build on it. The token parameter is added here.
func (c *Client) Send(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, endpoint, params)
}

// get issues one GET request against endpoint and classifies failures into
// TransportError / APIError. The Bot API uses query-parameter GET requests
// for every method except uploads.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.token)

	reqURL := c.baseURL + basePath + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("botapi: create %s request: %w", endpoint, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyRequestError(endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &TransportError{Kind: RateLimited, Endpoint: endpoint, Status: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, &TransportError{Kind: ServerError, Endpoint: endpoint, Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, &TransportError{Kind: Network, Endpoint: endpoint, Status: resp.StatusCode}
	}

	var envelope struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{Kind: ServerError, Endpoint: endpoint, Err: err}
	}
	if !envelope.OK {
		return nil, &APIError{Endpoint: endpoint, Description: envelope.Description}
	}

	return body, nil
}

// call performs a GET request and decodes the response into out.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Kind: ServerError, Endpoint: endpoint, Err: err}
	}
	return nil
}
