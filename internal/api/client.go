// Package api talks to the habit tracker REST service. Every failure leaves
// the package as a classified *Error: transport failures as KindNetwork,
// rejected requests by status, and malformed or oversized responses as
// KindUnknown.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/logger"
	"github.com/julianstephens/smarthabit/internal/session"
)

// maxBodyBytes bounds a response body. A larger body is refused, never
// decoded truncated.
var maxBodyBytes int64 = 32 << 20

// Client holds what both the auth and habits endpoints share: the server
// origin, the HTTP transport and the token store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     session.TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the server at origin, e.g. "http://localhost:8000".
// The API base path is appended by the client.
func New(origin string, tokens session.TokenStore, opts ...Option) *Client {
	if origin == "" {
		origin = constants.DefaultServerURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(origin, "/") + constants.APIBasePath,
		httpClient: &http.Client{},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Auth() *AuthClient {
	return &AuthClient{c: c}
}

func (c *Client) Habits() *HabitsClient {
	return &HabitsClient{c: c}
}

// BaseURL returns the origin joined with the API base path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return unknown("failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return unknown("failed to build request", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.tokens.Access()
		if err != nil {
			return unknown("failed to read access token", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "err", err)
		return Classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Classify(fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(data)) > maxBodyBytes {
		log.Warn("response too large", "status", resp.StatusCode, "limit", maxBodyBytes)
		return &Error{
			Kind:    KindUnknown,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("response too large (over %d bytes)", maxBodyBytes),
		}
	}
	log.Debug("request complete", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := fromResponse(resp.StatusCode, data)
		log.Info("request rejected", "status", resp.StatusCode, "kind", apiErr.Kind, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return unknown("failed to decode response", err)
	}
	return nil
}

// Ping reports whether the server answers HTTP at all. Any status counts as
// reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/habits/", nil)
	if err != nil {
		return unknown("failed to build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classify(err)
	}
	_ = resp.Body.Close()
	return nil
}
