// Package rest provides a small JSON REST client shared by the JIRA and
// Confluence modules. It handles base-URL joining, basic auth, per-request
// IDs, timeouts, and response decoding.
package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/constants"
	crucibleerrors "github.com/crucible-dev/crucible/internal/errors"
)

// Client issues JSON requests against one API base URL.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given base URL with basic auth
// credentials (Atlassian-style email + API token).
func NewClient(baseURL, email, token string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: basicAuthHeader(email, token),
		httpClient: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:     logger.With().Str("component", "rest").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// basicAuthHeader builds the Authorization header value for basic auth.
func basicAuthHeader(email, token string) string {
	credentials := base64.StdEncoding.EncodeToString([]byte(email + ":" + token))
	return "Basic " + credentials
}

// Get issues a GET request and decodes the JSON response into out.
// Pass nil out to discard the body.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return crucibleerrors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return crucibleerrors.Wrap(err, "failed to build request")
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("method", method).
			Str("url", url).
			Str("request_id", requestID).
			Err(err).
			Msg("request failed")
		return crucibleerrors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractErrorMessage(resp.Body)
		return fmt.Errorf("%w: %s %s returned %d: %s",
			crucibleerrors.ErrUnexpectedStatus, method, endpoint, resp.StatusCode, detail)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return crucibleerrors.Wrapf(err, "failed to decode %s %s response", method, endpoint)
	}
	return nil
}

// extractErrorMessage pulls a short human-readable detail out of an error
// response body. API error payloads vary; fall back to the raw (truncated)
// body when no known shape matches.
func extractErrorMessage(body io.Reader) string {
	const maxDetail = 200

	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var payload struct {
		Message       string   `json:"message"`
		ErrorMessages []string `json:"errorMessages"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.ErrorMessages) > 0 {
			return strings.Join(payload.ErrorMessages, "; ")
		}
	}

	detail := strings.TrimSpace(string(raw))
	if len(detail) > maxDetail {
		detail = detail[:maxDetail] + "..."
	}
	return detail
}
