// Package verify implements the external verification adapters: volume
// authenticity and contract safety. Both checks are total: every failure
// mode collapses to a boolean, and transport errors are logged as warnings
// and treated as a conservative rejection, never escalated.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	apperrors "dexwatch/internal/errors"
	"dexwatch/internal/models"
)

// Verifier is a boolean check over one token record.
type Verifier interface {
	Verify(ctx context.Context, token *models.TokenRecord) bool
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON issues a GET to endpoint with the given query parameters and
// decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, endpoint string, params interface{}, out interface{}) error {
	vals, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+vals.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// VolumeVerifier checks volume authenticity against the Pocket Universe
// service, or applies a local fallback policy when no endpoint is
// configured.
type VolumeVerifier struct {
	endpoint        string
	assumeAuthentic bool
	client          *http.Client
	logger          zerolog.Logger
}

// NewVolumeVerifier creates a volume verifier. An empty endpoint selects the
// fallback policy: volume must be present and strictly positive, unless
// assumeAuthentic is set, in which case every token is accepted. The flag is
// an explicit operator choice for upstream schema variants that never report
// volume; it is never inferred from responses.
func NewVolumeVerifier(endpoint string, assumeAuthentic bool, timeout time.Duration, logger zerolog.Logger) *VolumeVerifier {
	return &VolumeVerifier{
		endpoint:        endpoint,
		assumeAuthentic: assumeAuthentic,
		client:          newHTTPClient(timeout),
		logger:          logger,
	}
}

type volumeQuery struct {
	Token string `url:"token"`
}

type volumeResponse struct {
	Authentic bool `json:"authentic"`
}

// Verify reports whether the token's volume is considered authentic.
func (v *VolumeVerifier) Verify(ctx context.Context, token *models.TokenRecord) bool {
	if v.endpoint == "" || token.ID == "" {
		return v.fallback(token)
	}

	var result volumeResponse
	if err := getJSON(ctx, v.client, v.endpoint, volumeQuery{Token: token.ID}, &result); err != nil {
		v.logger.Warn().
			Err(apperrors.NewVerificationError("pocket_universe", token.ID, err)).
			Str("token", token.ID).
			Str("symbol", token.EffectiveSymbol()).
			Msg("Volume verification request failed")
		return false
	}

	if !result.Authentic {
		v.logger.Warn().
			Str("token", token.ID).
			Str("symbol", token.EffectiveSymbol()).
			Msg("Token failed volume authenticity check")
	}
	return result.Authentic
}

// fallback is the local policy used when no verification endpoint is
// configured (or the token has no resolvable identifier to query by).
func (v *VolumeVerifier) fallback(token *models.TokenRecord) bool {
	if v.assumeAuthentic {
		return true
	}
	return token.Volume != nil && *token.Volume > 0
}

// ContractChecker checks contract safety against the rugcheck service.
// A token without a contract address fails closed; a missing endpoint fails
// open. This asymmetry mirrors the upstream security policy and is
// intentional.
type ContractChecker struct {
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewContractChecker creates a contract safety checker.
func NewContractChecker(endpoint string, timeout time.Duration, logger zerolog.Logger) *ContractChecker {
	return &ContractChecker{
		endpoint: endpoint,
		client:   newHTTPClient(timeout),
		logger:   logger,
	}
}

type contractQuery struct {
	Contract string `url:"contract"`
}

type contractResponse struct {
	Status string `json:"status"`
}

// contractStatusGood is the only accepted status. The match is
// case-sensitive: "good" and "GOOD" are rejections.
const contractStatusGood = "Good"

// Verify reports whether the token's contract is considered safe.
func (c *ContractChecker) Verify(ctx context.Context, token *models.TokenRecord) bool {
	if token.Contract == "" {
		c.logger.Warn().
			Str("token", token.ID).
			Str("symbol", token.EffectiveSymbol()).
			Msg("No contract info for token, skipping contract check")
		return false
	}

	if c.endpoint == "" {
		return true
	}

	var result contractResponse
	if err := getJSON(ctx, c.client, c.endpoint, contractQuery{Contract: token.Contract}, &result); err != nil {
		c.logger.Warn().
			Err(apperrors.NewVerificationError("rugcheck", token.ID, err)).
			Str("token", token.ID).
			Str("symbol", token.EffectiveSymbol()).
			Msg("Contract check request failed")
		return false
	}

	if result.Status != contractStatusGood {
		c.logger.Warn().
			Str("token", token.ID).
			Str("symbol", token.EffectiveSymbol()).
			Str("status", result.Status).
			Msg("Token rejected by contract check")
		return false
	}
	return true
}
