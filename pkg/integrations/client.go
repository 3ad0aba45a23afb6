package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/recipegen/pkg/observability"
)

// Client provides shared HTTP functionality for upstream metadata clients.
// It applies default headers and reports every request to the registered
// [observability.HTTPHooks]. It never retries and never caches.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client using httpClient and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed, and nil for
// httpClient to get [NewHTTPClient] with transport-default timeouts.
func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:    httpClient,
		headers: headers,
	}
}

// GetText performs an HTTP GET request and returns the response body as a string.
// Any status other than 200 is an error wrapping [ErrNotFound] (404) or
// [ErrNetwork] (everything else).
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, code)
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
