// Package vpic is a minimal client for the NHTSA vPIC vehicle API.
package vpic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"garage/internal/entities"
)

const DefaultBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

var ErrMissingResults = errors.New("vpic: response has no Results")

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A zero timeout leaves the request
// bounded only by its context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type decodeResponse struct {
	Count          int                     `json:"Count"`
	Message        string                  `json:"Message"`
	SearchCriteria string                  `json:"SearchCriteria"`
	Results        []entities.DecodeResult `json:"Results"`
}

// DecodeVin issues a single GET to DecodeVin/{vin}?format=json and returns
// the raw Variable/Value list. There is no retry.
func (c *Client) DecodeVin(ctx context.Context, vin string) ([]entities.DecodeResult, error) {
	endpoint := fmt.Sprintf("%s/DecodeVin/%s?format=json", c.baseURL, url.PathEscape(vin))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vpic: decode request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vpic: unexpected status %s", resp.Status)
	}

	var body decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("vpic: invalid response body: %w", err)
	}
	if body.Results == nil {
		return nil, ErrMissingResults
	}
	return body.Results, nil
}
