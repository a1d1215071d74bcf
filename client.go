package mailbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/mailbridge-go/internal/config"
)

const (
	defaultBaseURL      = "https://api.mailbridge.io"
	defaultHTTPTimeout  = 30 * time.Second
	defaultMaxBodyBytes = 64 * 1024
)

// HTTPClient abstracts the http.Client Do method so tests and callers can
// inject their own exchange implementation.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises client behaviour.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used to reach the backend.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL sets the backend base URL. Useful for tests and self-hosted
// deployments.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithLogger attaches a diagnostic log sink. Logging never affects the
// returned envelopes.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables payload-level debug logging. Body content is always
// redacted before it reaches the sink.
func WithDebug(enabled bool) Option {
	return func(c *Client) {
		c.debug = enabled
	}
}

// WithClock overrides the clock used for timestamps, durations and schedule
// validation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBodyLimit adjusts how many bytes are retained from a response body.
func WithBodyLimit(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBodyBytes = limit
		}
	}
}

// Client issues operations against the Mailbridge REST backend and
// normalizes every outcome into a Result envelope. All configuration is
// captured at construction; concurrent calls on one client are safe.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   HTTPClient
	logger       zerolog.Logger
	debug        bool
	now          func() time.Time
	maxBodyBytes int64
}

// New constructs a client from an API key. The key is trimmed and must be
// non-empty; this is the only expected failure mode that surfaces as a Go
// error rather than an envelope.
func New(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, errors.New("mailbridge: API key is required")
	}

	c := &Client{
		apiKey:       key,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:       zerolog.Nop(),
		now:          time.Now,
		maxBodyBytes: defaultMaxBodyBytes,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if c.maxBodyBytes <= 0 {
		c.maxBodyBytes = defaultMaxBodyBytes
	}

	return c, nil
}

// NewFromEnv constructs a client from environment variables (a .env file is
// honoured when present). Explicit options take precedence over the
// environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	envOpts := []Option{
		WithBaseURL(cfg.BaseURL),
		WithDebug(cfg.Debug),
	}
	if cfg.HTTPTimeoutSeconds > 0 {
		envOpts = append(envOpts, WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		}))
	}

	return New(cfg.APIKey, append(envOpts, opts...)...)
}

// newRequestID builds a per-call correlation identifier. Uniqueness is
// best-effort (time plus a random fragment); it is a log correlation key,
// not an idempotency key.
func (c *Client) newRequestID() string {
	fragment := uuid.NewString()
	if idx := strings.IndexByte(fragment, '-'); idx > 0 {
		fragment = fragment[:idx]
	}
	return fmt.Sprintf("req_%d_%s", c.now().UnixMilli(), fragment)
}

// start allocates the envelope for a new call with its correlation fields
// populated.
func (c *Client) start() (*Result, time.Time) {
	started := c.now()
	return &Result{
		RequestID: c.newRequestID(),
		Timestamp: started.UTC().Format(time.RFC3339),
	}, started
}

// finish stamps the elapsed duration and emits the outcome log entry.
func (c *Client) finish(res *Result, started time.Time) *Result {
	res.DurationMillis = c.now().Sub(started).Milliseconds()

	evt := c.logger.Info()
	if !res.Success {
		evt = c.logger.Error()
	}
	evt.Str("request_id", res.RequestID).
		Bool("success", res.Success).
		Int64("duration_ms", res.DurationMillis).
		Str("error_type", string(res.ErrorType)).
		Msg("mailbridge: request finished")

	return res
}

// failValidation finalizes an envelope for a local validation failure. No
// network call has been made, so StatusCode stays nil.
func (c *Client) failValidation(res *Result, started time.Time, err error) *Result {
	res.Success = false
	res.Error = err.Error()
	res.ErrorType = ErrorTypeValidation
	return c.finish(res, started)
}

// exchange performs one HTTP round trip. On a transport failure it fills the
// failure side of the envelope and reports ok=false; otherwise it returns
// the status code and the decoded JSON body (empty when the body is absent
// or not JSON).
func (c *Client) exchange(ctx context.Context, method, path string, payload map[string]any, res *Result) (int, map[string]any, bool) {
	endpoint := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			res.Success = false
			res.Error = fmt.Sprintf("encode request payload: %v", err)
			res.ErrorType = ErrorTypeUnknown
			res.Suggestion = genericSuggestion
			res.Endpoint = endpoint
			return 0, nil, false
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		res.Success = false
		res.Error = fmt.Sprintf("build request: %v", err)
		res.ErrorType = ErrorTypeUnknown
		res.Suggestion = genericSuggestion
		res.Endpoint = endpoint
		return 0, nil, false
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", res.RequestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info().
		Str("request_id", res.RequestID).
		Str("method", method).
		Str("endpoint", endpoint).
		Msg("mailbridge: request start")
	if c.debug && payload != nil {
		c.logger.Debug().
			Str("request_id", res.RequestID).
			Interface("payload", redactPayload(payload)).
			Msg("mailbridge: outbound payload")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errType, suggestion := classifyTransportError(err)
		res.Success = false
		res.Error = err.Error()
		res.ErrorType = errType
		res.Suggestion = suggestion
		res.Endpoint = endpoint
		return 0, nil, false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		res.Success = false
		res.Error = fmt.Sprintf("read response body: %v", err)
		res.ErrorType = ErrorTypeNetwork
		res.Suggestion = networkSuggestion
		res.Endpoint = endpoint
		return 0, nil, false
	}

	parsed := map[string]any{}
	if len(raw) > 0 {
		// Tolerate non-JSON bodies; the status code still drives the outcome.
		_ = json.Unmarshal(raw, &parsed)
	}

	if c.debug {
		c.logger.Debug().
			Str("request_id", res.RequestID).
			Int("status", resp.StatusCode).
			Msg("mailbridge: inbound status")
	}

	return resp.StatusCode, parsed, true
}

// failHTTP finalizes an envelope for a non-2xx response.
func (c *Client) failHTTP(res *Result, started time.Time, status int, body map[string]any, path string) *Result {
	code := status
	res.Success = false
	res.Error = httpErrorMessage(body, status)
	res.ErrorType = categorizeError(status)
	res.Suggestion = suggestionFor(status)
	res.StatusCode = &code
	res.Endpoint = c.baseURL + path
	return c.finish(res, started)
}

// redactPayload copies the payload with body content replaced so message
// text is never logged verbatim.
func redactPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	for _, key := range []string{"text", "html", "body_text", "body_html"} {
		if _, ok := out[key]; ok {
			out[key] = "[redacted]"
		}
	}
	return out
}
