// Package sheets provides a read-only client for the Google Sheets values API.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ruffo_chat_backend/platform/logger"
)

// Row is a spreadsheet row keyed by header name.
type Row map[string]string

// Config for the sheets client.
type Config struct {
	APIKey        string
	SpreadsheetID string
	SheetName     string
}

// Client reads product rows from a Google spreadsheet using the public
// values API. It holds no cache; every call re-queries the sheet.
type Client struct {
	config Config
	client *http.Client
	log    *logger.Logger
}

// NewClient creates a sheets client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// Rows fetches the whole sheet and returns data rows keyed by the header
// row. Short rows are padded with empty strings.
func (c *Client) Rows(ctx context.Context) ([]Row, error) {
	endpoint := fmt.Sprintf(
		"https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?key=%s",
		url.PathEscape(c.config.SpreadsheetID),
		url.PathEscape(c.config.SheetName),
		url.QueryEscape(c.config.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets api returned status %d", resp.StatusCode)
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode sheets response: %w", err)
	}

	if len(payload.Values) < 2 {
		return nil, nil
	}

	headers := payload.Values[0]
	rows := make([]Row, 0, len(payload.Values)-1)
	for _, raw := range payload.Values[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = raw[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
