package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"rxcast/internal/logging"
)

// DefaultFDAEndpoint is the openFDA drug shortages API.
const DefaultFDAEndpoint = "https://api.fda.gov/drug/shortages.json"

// Shortage statuses reported in fda_status.
const (
	FDAStatusShortage = "Currently in Shortage"
	FDAStatusNormal   = "Normal"
	FDAStatusError    = "API Error"
)

const oseltamivirGenericName = "Oseltamivir Phosphate"

// ShortageChecker reports the FDA shortage status of the forecast drug.
type ShortageChecker interface {
	ShortageStatus(ctx context.Context) string
}

type staticStatus string

func (s staticStatus) ShortageStatus(context.Context) string { return string(s) }

// FDAClient queries openFDA for an active shortage of oseltamivir.
type FDAClient struct {
	endpoint string
	client   *http.Client
	logger   logrus.FieldLogger
}

// FDAOption configures an FDAClient.
type FDAOption func(*FDAClient)

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) FDAOption {
	return func(c *FDAClient) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FDAOption {
	return func(c *FDAClient) {
		c.client = client
	}
}

// NewFDAClient creates a client for endpoint.
func NewFDAClient(endpoint string, opts ...FDAOption) *FDAClient {
	c := &FDAClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type shortagesResponse struct {
	Results []json.RawMessage `json:"results"`
}

// ShortageStatus returns FDAStatusShortage when openFDA lists the drug,
// FDAStatusNormal when it does not, and FDAStatusError on any failure.
func (c *FDAClient) ShortageStatus(ctx context.Context) string {
	status, err := c.lookup(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("openFDA lookup failed")
		return FDAStatusError
	}
	return status
}

func (c *FDAClient) lookup(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("search", fmt.Sprintf("generic_name:%q", oseltamivirGenericName))
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	// openFDA answers 404 when the search matches nothing.
	if resp.StatusCode == http.StatusNotFound {
		return FDAStatusNormal, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body shortagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(body.Results) > 0 {
		return FDAStatusShortage, nil
	}
	return FDAStatusNormal, nil
}
