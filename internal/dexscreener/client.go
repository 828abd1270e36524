// Package dexscreener fetches token profiles from the market-data API and
// normalizes them into canonical TokenRecords.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "dexwatch/internal/errors"
	"dexwatch/internal/models"
)

// DefaultEndpoint is the token profile listing endpoint.
const DefaultEndpoint = "https://api.dexscreener.com/token-profiles/latest/v1"

// Client fetches token profiles over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a new dexscreener client. An empty endpoint selects the
// default; a zero timeout selects 10 seconds.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current batch of token profiles. Any transport or
// decode failure is returned as an error; the caller treats it as an empty
// cycle. An unrecognized payload shape decodes to an empty batch.
func (c *Client) Fetch(ctx context.Context) ([]models.TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: endpoint returned status %d", apperrors.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return decodeBatch(body)
}

// decodeBatch accepts either a top-level JSON array of token objects or a
// wrapper object carrying the array under a "tokens" key. Anything else is
// an empty batch.
func decodeBatch(body []byte) ([]models.TokenRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		return normalizeAll(raw), nil
	}

	var wrapper struct {
		Tokens []json.RawMessage `json:"tokens"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding token profiles: %w", err)
	}
	return normalizeAll(wrapper.Tokens), nil
}

func normalizeAll(raw []json.RawMessage) []models.TokenRecord {
	records := make([]models.TokenRecord, 0, len(raw))
	for _, r := range raw {
		var obj map[string]interface{}
		if err := json.Unmarshal(r, &obj); err != nil {
			continue
		}
		records = append(records, Normalize(obj))
	}
	return records
}
