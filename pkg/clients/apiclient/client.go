package apiclient

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
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RequestIDHeader correlates client log lines with backend logs
const RequestIDHeader = "X-Request-ID"

// Client is a typed client for the volunteer-connect REST API.
// Requests to auth endpoints go out anonymously; everything else carries the
// bearer token produced by the token source at the moment of the call.
type Client struct {
	baseURL string
	anon    *http.Client
	authed  *http.Client
	logger  *zap.Logger
}

// Options configures a Client
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api
	BaseURL string
	// Timeout bounds each request; zero leaves the transport default
	Timeout time.Duration
	// Transport is the base round tripper; nil uses http.DefaultTransport
	Transport http.RoundTripper
}

// NewClient creates a client whose authenticated requests use tokens from ts
func NewClient(opts Options, ts oauth2.TokenSource, logger *zap.Logger) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logged := &loggingTransport{base: base, logger: logger}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		anon: &http.Client{
			Transport: logged,
			Timeout:   opts.Timeout,
		},
		authed: &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: logged},
			Timeout:   opts.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends body as JSON and decodes a JSON response into out (when non-nil)
func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	data, err := c.doRaw(ctx, hc, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRaw sends the request and returns the raw response body of a 2xx response
func (c *Client) doRaw(ctx context.Context, hc *http.Client, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request in JSON: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// loggingTransport stamps a request id on each request and logs the exchange
type loggingTransport struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("API request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.logger.Debug("API request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
