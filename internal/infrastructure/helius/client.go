package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// Client wraps the Helius REST API with retry logic. The underlying
// http.Client is created once and reused so the connection pool is shared
// across all calls.
type Client struct {
	httpClient *http.Client
	config     config.HeliusConfig
	logger     *zap.Logger
}

// NewClient creates a new Helius API client
func NewClient(cfg config.HeliusConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		config:     cfg,
		logger:     logger,
	}
}

// GetWalletTransactions fetches transfer-level transaction history for a
// wallet over the last N days from the enhanced-transactions endpoint.
// Callers treat any error as "no data" for PNL purposes.
func (c *Client) GetWalletTransactions(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -days)

	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions", c.config.BaseURL, walletAddress)

	params := url.Values{}
	params.Set("api-key", c.config.APIKey)
	params.Set("startTime", strconv.FormatInt(start.Unix(), 10))
	params.Set("endTime", strconv.FormatInt(now.Unix(), 10))

	var transactions []entities.RawTransaction
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), &transactions); err != nil {
		return nil, fmt.Errorf("failed to fetch wallet transactions: %w", err)
	}

	c.logger.Debug("Fetched wallet transactions",
		zap.String("wallet", walletAddress),
		zap.Int("days", days),
		zap.Int("count", len(transactions)),
	)

	return transactions, nil
}

// tokenMetadataEntry is one item of the token-metadata response
type tokenMetadataEntry struct {
	Account         string `json:"account"`
	OnChainMetadata struct {
		Metadata struct {
			Data struct {
				Name   string `json:"name"`
				Symbol string `json:"symbol"`
			} `json:"data"`
		} `json:"metadata"`
	} `json:"onChainMetadata"`
	OnChainAccountInfo struct {
		AccountInfo struct {
			Data struct {
				ParsedAccountInfo struct {
					Decimals int `json:"decimals"`
				} `json:"parsed_account_info"`
			} `json:"data"`
		} `json:"accountInfo"`
	} `json:"onChainAccountInfo"`
}

// GetTokenMetadata resolves display metadata for a set of mints. Mints the
// API does not know are absent from the result.
func (c *Client) GetTokenMetadata(ctx context.Context, mints []string) (map[string]entities.Token, error) {
	if len(mints) == 0 {
		return map[string]entities.Token{}, nil
	}

	endpoint := fmt.Sprintf("%s/v0/token-metadata?api-key=%s", c.config.BaseURL, c.config.APIKey)

	payload, err := json.Marshal(map[string]interface{}{
		"mintAccounts":    mints,
		"includeOffChain": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata request: %w", err)
	}

	var entries []tokenMetadataEntry
	if err := c.postJSON(ctx, endpoint, payload, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}

	result := make(map[string]entities.Token, len(entries))
	for _, e := range entries {
		if e.Account == "" {
			continue
		}
		result[e.Account] = entities.Token{
			Mint:     e.Account,
			Name:     e.OnChainMetadata.Metadata.Data.Name,
			Symbol:   e.OnChainMetadata.Metadata.Data.Symbol,
			Decimals: e.OnChainAccountInfo.AccountInfo.Data.ParsedAccountInfo.Decimals,
		}
	}

	return result, nil
}

// HealthCheck reports whether the Helius API is reachable. Any HTTP
// response below 500 counts as reachable; the probe carries no API key so
// auth failures are expected.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("helius unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("helius returned status %d", resp.StatusCode)
	}

	return nil
}

// getJSON performs a GET with retries and decodes the response body
func (c *Client) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	}, dest)
}

// postJSON performs a POST with retries and decodes the response body
func (c *Client) postJSON(ctx context.Context, rawURL string, body []byte, dest interface{}) error {
	return c.doJSON(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, dest)
}

// doJSON executes a request with the configured retry policy
func (c *Client) doJSON(ctx context.Context, newRequest func() (*http.Request, error), dest interface{}) error {
	var lastErr error

	for i := 0; i <= c.config.MaxRetries; i++ {
		req, err := newRequest()
		if err != nil {
			return err
		}

		lastErr = c.execute(req, dest)
		if lastErr == nil {
			return nil
		}

		c.logger.Warn("Helius request failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(lastErr),
		)

		if i < c.config.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}
	}

	return fmt.Errorf("request failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

func (c *Client) execute(req *http.Request, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
