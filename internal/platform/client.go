// Package platform is the typed HTTP client for the hosted commerce
// platform. All catalog, customer and cart state lives on the platform;
// this package only moves versioned resources and structured errors
// across the wire.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is one handle to the platform API, bound to a single bearer
// token (anonymous or customer scoped). Handles are cheap; identity
// changes are performed by building a new handle via the Factory.
type Client struct {
	httpClient *http.Client
	apiURL     string
	projectKey string
	token      string
	logger     *log.Logger
}

func newClient(apiURL, projectKey, token string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		projectKey: projectKey,
		token:      token,
		logger:     logger,
	}
}

// Token returns the bearer token this handle was built with.
func (c *Client) Token() string {
	return c.token
}

// do performs one JSON request against a project-scoped path and decodes
// the response into out. Non-2xx responses are decoded into the
// platform's structured error body and mapped onto the domain taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := fmt.Sprintf("%s/%s%s", c.apiURL, c.projectKey, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
