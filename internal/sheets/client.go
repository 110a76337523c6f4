// Package sheets is a read-only client for spreadsheet value ranges, used by
// the audit command to fetch the exported "Dane" and "Pozycje" ranges.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "invoice-processing-service/pkg/errors"
	"invoice-processing-service/pkg/logger"
)

// DefaultBaseURL is the spreadsheet values endpoint root.
const DefaultBaseURL = "https://sheets.googleapis.com"

// ClientConfig configures the spreadsheet client.
type ClientConfig struct {
	SpreadsheetID string
	Token         string
	BaseURL       string // overridable for tests
	Timeout       time.Duration
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}
	if c.Token == "" {
		return fmt.Errorf("access token is required")
	}
	return nil
}

// Client fetches value ranges from one spreadsheet.
type Client struct {
	config *ClientConfig
	client *http.Client
	logger logger.Logger
}

// NewClient creates a client for the configured spreadsheet.
func NewClient(config *ClientConfig, log logger.Logger) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: log.WithComponent("sheets"),
	}, nil
}

// valuesResponse mirrors the values.get response body.
type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// FetchRange returns the string-valued rows of a named range, for example
// "Dane!A2:K". Empty trailing cells may be absent from a row; callers treat
// short rows as having empty cells.
func (c *Client) FetchRange(ctx context.Context, rangeName string) ([][]string, error) {
	endpoint := c.config.BaseURL
	if endpoint == "" {
		endpoint = DefaultBaseURL
	}
	requestURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		endpoint, url.PathEscape(c.config.SpreadsheetID), url.PathEscape(rangeName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.AuditError(apperrors.CodeRangeFetch, rangeName, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.AuditError(apperrors.CodeRangeFetch, rangeName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.AuditError(apperrors.CodeRangeFetch, rangeName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.AuditError(apperrors.CodeRangeFetch, rangeName,
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var decoded valuesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, apperrors.AuditError(apperrors.CodeRangeFetch, rangeName, err)
	}

	c.logger.WithFields(logger.Fields{
		"range":      rangeName,
		"rows":       len(decoded.Values),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("Range fetched")

	return decoded.Values, nil
}
