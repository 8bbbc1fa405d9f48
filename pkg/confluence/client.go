package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const contentPath = "/rest/api/content/"

// Client talks to the Confluence content REST API with HTTP Basic auth.
//
// Requests are single-shot. Failed requests are never retried, so a stale
// version number or a bad credential surfaces to the caller immediately.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

// NewClient creates a new Confluence client.
func NewClient(cfg *Config, logger hclog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = DefaultConfig().TLSVerify
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid confluence config: %w", err)
	}

	return &Client{
		config: cfg,
		client: cfg.NewHTTPClient(),
		logger: logger.Named("confluence"),
	}, nil
}

// BaseURL returns the configured wiki root.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.config.BaseURL, "/")
}

// Fetch returns the content item with its version and space expanded.
func (c *Client) Fetch(ctx context.Context, id string) (*Content, error) {
	query := url.Values{}
	query.Set("expand", "version,space")

	var content Content
	if err := c.doRequest(ctx, http.MethodGet, c.contentURL(id, query), nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Update replaces the content item with content. content.Version.Number must
// be one greater than the stored version.
func (c *Client) Update(ctx context.Context, id string, content *Content) (*Content, error) {
	var updated Content
	if err := c.doRequest(ctx, http.MethodPut, c.contentURL(id, nil), content, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) contentURL(id string, query url.Values) string {
	u := c.BaseURL() + contentPath + url.PathEscape(id)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest executes a single HTTP request and decodes a JSON response.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.Username, c.config.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request complete",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(method, endpoint, resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
