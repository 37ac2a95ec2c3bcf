package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Lambda Cloud API endpoint.
const DefaultBaseURL = "https://cloud.lambda.ai/api/v1"

const (
	defaultHTTPTimeout = 30 * time.Second

	maxResponseBodyBytes int64 = 4 * 1024 * 1024
)

// API paths consumed by this client.
const (
	instancesPath   = "/instances"
	imagesPath      = "/images"
	auditEventsPath = "/audit-events"
	launchPath      = "/instance-operations/launch"
	terminatePath   = "/instance-operations/terminate"
)

// envAPIKey is the environment variable consulted when Config.APIKey is empty.
const envAPIKey = "LAMBDA_API_KEY"

// Config configures the Lambda Cloud API client.
type Config struct {
	// APIKey authenticates every request. Falls back to the LAMBDA_API_KEY
	// environment variable when empty.
	APIKey string

	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string

	Timeout time.Duration

	// DisableRateLimit turns off request self-throttling entirely.
	DisableRateLimit bool

	// MinRequestInterval / MinLaunchInterval override the default floors of
	// 1s between requests and 12s between launch calls.
	MinRequestInterval time.Duration
	MinLaunchInterval  time.Duration

	// Logger receives debug-level request logging. Nil means no logging.
	Logger *zerolog.Logger
}

// Client is a thin HTTP wrapper around the Lambda Cloud REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rateLimiter
	log        zerolog.Logger
}

// NewClient creates a new Lambda Cloud API client. It fails before any
// request is made when no API key is available.
func NewClient(config Config) (*Client, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(envAPIKey))
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	var limiter *rateLimiter
	if !config.DisableRateLimit {
		limiter = newRateLimiter(config.MinRequestInterval, config.MinLaunchInterval)
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		log:        log,
	}, nil
}

// Close releases idle HTTP transport connections held by the client.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

// Do issues an authenticated request and unwraps the response envelope.
// The returned payload is the "data" member when the body is a JSON object
// containing one, the whole JSON body otherwise, or nil when the response
// carried no parseable JSON. Any status >= 400 yields an *APIError.
func (c *Client) Do(ctx context.Context, method string, path string, query url.Values, body any) (json.RawMessage, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if err := c.limiter.Wait(ctx, path); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s %s: %w", method, path, err)
	}

	request, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("lambda request %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read lambda response body for %s %s: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Int("bytes", len(raw)).
		Msg("lambda api request")

	// Malformed JSON is tolerated and treated as "no JSON body".
	contentType := response.Header.Get("Content-Type")
	hasJSON := strings.Contains(contentType, "application/json") && json.Valid(raw)

	if response.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(response.StatusCode, raw, hasJSON)
	}

	if !hasJSON {
		return nil, nil
	}
	return unwrapEnvelope(raw), nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) newRequest(ctx context.Context, method string, path string, query url.Values, body any) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode lambda request body for %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build lambda request %s %s: %w", method, path, err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return request, nil
}

// unwrapEnvelope returns the "data" member of a success envelope, or the
// body unchanged when the envelope is absent (non-object bodies included).
func unwrapEnvelope(raw []byte) json.RawMessage {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return raw
	}
	if data, ok := object["data"]; ok {
		return data
	}
	return raw
}

// decodeAPIError builds an *APIError from an error response. The provider
// envelope is {"error": {"code", "message", "suggestion"}}, but bodies
// without it (or without JSON at all) still produce a structured error.
func decodeAPIError(status int, raw []byte, hasJSON bool) *APIError {
	apiErr := &APIError{
		Status:  status,
		Code:    "unknown",
		Message: fmt.Sprintf("HTTP %d", status),
	}
	if !hasJSON {
		return apiErr
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Body = body

	errObject, ok := body["error"].(map[string]any)
	if !ok {
		return apiErr
	}

	if code, ok := errObject["code"]; ok {
		apiErr.Code = fmt.Sprint(code)
	}
	if message, ok := errObject["message"]; ok {
		apiErr.Message = fmt.Sprint(message)
	} else {
		apiErr.Message = ""
	}
	if suggestion, ok := errObject["suggestion"]; ok && suggestion != nil {
		apiErr.Suggestion = fmt.Sprint(suggestion)
	}
	return apiErr
}
