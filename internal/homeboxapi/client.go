package homeboxapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	userAgent = "Hearth-Import/0.1 (https://github.com/Another0Noob/hearth-import)"
	apiPrefix = "/api/v1"

	defaultRate    = 5
	defaultTimeout = 30 * time.Second

	maxJSONBytes       = 32 << 20
	maxAttachmentBytes = 64 << 20
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Client talks to the HomeBox REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	userAgent   string
	rateLimiter *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRate limits requests per second; burst equals the rate.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		burst := max(int(perSecond), 1)
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a client for the HomeBox instance at baseURL.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     baseURL,
		token:       token,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRate), defaultRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs a request against the API and returns the raw
// response. Non-2xx statuses are turned into errors and the body closed.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	fullURL := c.baseURL + apiPrefix + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, statusError(resp.StatusCode, b)
	}
	return resp, nil
}

func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (%d)", ErrUnauthorized, status)
	case http.StatusNotFound:
		return fmt.Errorf("%w (%d)", ErrNotFound, status)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("api error (%d): %s", status, apiErr.Error)
	}
	return fmt.Errorf("unexpected status %d: %s", status, string(body))
}

// doJSON executes a GET and decodes the body into out.
func (c *Client) doJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// doBytes executes a GET and returns at most limit bytes of body.
func (c *Client) doBytes(ctx context.Context, endpoint string, limit int64) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return b, nil
}
