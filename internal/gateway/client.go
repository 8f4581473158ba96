package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rxcast/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 10 * time.Second
	PredictPath    = "/predict"
)

var (
	// ErrUpstreamStatus is returned for any non-2xx response.
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrDecode is returned when the response body is not valid JSON.
	ErrDecode = errors.New("decode forecast response")
)

// ForecastClient fetches the raw forecast from the forecasting service.
type ForecastClient interface {
	// Predict performs one GET {base}/predict round trip.
	Predict(ctx context.Context) (domain.RawForecastResponse, error)
}

// HTTPClient implements ForecastClient over plain HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new forecast client for the given base address.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Predict retrieves and leniently decodes the forecast.
func (c *HTTPClient) Predict(ctx context.Context) (domain.RawForecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PredictPath, nil)
	if err != nil {
		return domain.RawForecastResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.RawForecastResponse{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawForecastResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RawForecastResponse{}, fmt.Errorf("%w %d: %s", ErrUpstreamStatus, resp.StatusCode, truncate(string(body), 200))
	}

	var out domain.RawForecastResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.RawForecastResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return out, nil
}

// ResolveBaseURL picks the forecasting service address: the explicit value,
// else the hosting origin, else DefaultBaseURL.
func ResolveBaseURL(explicit, origin string) string {
	for _, candidate := range []string{explicit, origin} {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" {
			return strings.TrimRight(candidate, "/")
		}
	}
	return DefaultBaseURL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
