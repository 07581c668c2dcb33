// Package api is the credentialed HTTP transport to the Mytherion REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mytherion/client/internal/logger"
	"golang.org/x/net/publicsuffix"
)

const (
	// RequestIDHeader correlates a client call with server logs.
	RequestIDHeader = "X-Request-Id"

	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string
	// HTTPClient overrides the default client. Its Jar is replaced when nil.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client issues JSON requests with the session cookie attached.
// The cookie jar lives in memory only.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New constructs a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		log:        log.Child(logger.Fields{"component": "api"}),
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON when non-nil.
	Body any
	// Fallback is the message used when the server provides none.
	Fallback string
}

// Do performs req and decodes a successful JSON response into out.
// out may be nil for endpoints that answer 204.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return &RequestError{Message: req.Fallback, Err: fmt.Errorf("encode request body: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return &RequestError{Message: req.Fallback, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	log := c.log.Child(logger.Fields{"method": req.Method, "path": req.Path, "requestId": requestID})
	log.Debug("Sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug("Request failed", logger.Fields{"cause": err.Error()})
		return &RequestError{Message: req.Fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := serverMessage(raw)
		if msg == "" {
			msg = req.Fallback
		}
		log.Debug("Request rejected", logger.Fields{"status": resp.StatusCode})
		return &RequestError{
			Status:  resp.StatusCode,
			Message: msg,
			Err:     fmt.Errorf("%s %s: status %d", req.Method, req.Path, resp.StatusCode),
		}
	}

	log.Debug("Request succeeded", logger.Fields{"status": resp.StatusCode})

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: req.Fallback, Err: fmt.Errorf("read response body: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: req.Fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Cookies returns the cookies the jar would send to the API.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// CheckID rejects non-positive identifiers without touching the network.
func CheckID(kind string, id int64) error {
	if id > 0 {
		return nil
	}
	return &RequestError{
		Message: fmt.Sprintf("invalid %s id %d", kind, id),
		Err:     fmt.Errorf("%w: %s %d", ErrInvalidID, kind, id),
	}
}
