// Package api is the single point of HTTP egress for the storefront client.
// Every request carries the current bearer token (when one exists) and a
// client-generated request ID; every failure comes back as a categorized
// *Error so stores and pages never touch raw status codes.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, or "" when anonymous. The auth
// store owns the token; the client only reads it.
type TokenSource interface {
	Token() string
}

// Config holds the client's connection settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Client issues requests against the storefront REST API.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
	logger    *zap.Logger
}

// NewClient builds a client for the given base URL. tokens may be nil for a
// purely anonymous client; logger may be nil.
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "vitrine-cli"
	}
	return &Client{
		base:      base,
		http:      &http.Client{Timeout: timeout},
		tokens:    tokens,
		userAgent: ua,
		logger:    logger.Named("api"),
	}, nil
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

// Post issues a JSON POST.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	rd, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, "application/json", rd, out)
}

// PostForm issues a form-encoded POST. The login endpoint is the one caller.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	rd := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, nil, "application/x-www-form-urlencoded", rd, out)
}

// Put issues a JSON PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	rd, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, "application/json", rd, out)
}

// Patch issues a JSON PATCH.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	rd, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, nil, "application/json", rd, out)
}

// Delete issues a DELETE. out may be nil when the response body is irrelevant.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil, out)
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindDecode, cause: err}
	}
	return bytes.NewReader(data), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Kind: KindNetwork, cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &Error{Kind: KindNetwork, cause: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, cause: err}
	}
	return nil
}

// errorBody matches the backend's {"detail": ...} envelope. detail is either
// a plain string or a list of {loc, msg} entries on 422.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldDetail struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{
		Kind:   kindForStatus(resp.StatusCode),
		Status: resp.StatusCode,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var envelope errorBody
	if json.Unmarshal(data, &envelope) != nil || envelope.Detail == nil {
		apiErr.Detail = strings.TrimSpace(string(data))
		return apiErr
	}

	var msg string
	if json.Unmarshal(envelope.Detail, &msg) == nil {
		apiErr.Detail = msg
		return apiErr
	}

	var fields []fieldDetail
	if json.Unmarshal(envelope.Detail, &fields) == nil {
		for _, f := range fields {
			apiErr.Fields = append(apiErr.Fields, FieldError{
				Field:   lastLoc(f.Loc),
				Message: f.Msg,
			})
		}
		apiErr.Detail = apiErr.FieldSummary()
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(envelope.Detail))
	return apiErr
}

// lastLoc extracts the field name from a validation loc like ["body","email"].
func lastLoc(loc []json.RawMessage) string {
	if len(loc) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(loc[len(loc)-1], &s) == nil {
		return s
	}
	return strings.Trim(string(loc[len(loc)-1]), `"`)
}
