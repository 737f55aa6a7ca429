// Package yahoo fetches equity option chains from the Yahoo Finance v7
// options endpoint and maps them onto the options package types.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"voyager-api/pkg/options"
)

const (
	defaultBaseURL          = "https://query2.finance.yahoo.com/v7/finance/options"
	defaultHTTPTimeout      = 10 * time.Second
	defaultMaxRetries       = 2
	defaultRetryBackoffBase = 500 * time.Millisecond
)

// Yahoo rejects requests without a browser-looking User-Agent.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Client wraps access to the Yahoo Finance options endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	userAgent  string
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default options endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithMaxRetries adjusts the retry budget.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithUserAgent overrides the browser User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient constructs a Yahoo Finance options client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Chain is one expiry's worth of contracts plus the context needed to
// interpret them.
type Chain struct {
	Ticker      string             `json:"ticker"`
	Expiry      time.Time          `json:"expiry"`
	Expirations []time.Time        `json:"expirations"`
	Spot        float64            `json:"spot"`
	Contracts   []options.Contract `json:"contracts"`
}

// GetChain fetches the option chain for the given ticker at its nearest
// expiry. Contracts from both sides of the book are merged into one slice
// sorted by strike then type.
func (c *Client) GetChain(ctx context.Context, ticker string) (*Chain, error) {
	return c.GetChainAt(ctx, ticker, time.Time{})
}

// GetChainAt fetches the option chain for a specific expiry. A zero expiry
// selects the nearest one, which is what the endpoint returns by default.
func (c *Client) GetChainAt(ctx context.Context, ticker string, expiry time.Time) (*Chain, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, fmt.Errorf("yahoo: ticker must not be empty")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(symbol)
	if !expiry.IsZero() {
		endpoint += fmt.Sprintf("?date=%d", expiry.Unix())
	}

	var payload optionChainResponse
	if err := c.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s",
			payload.OptionChain.Error.Code, payload.OptionChain.Error.Description)
	}
	if len(payload.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no option chain for %s", symbol)
	}

	result := payload.OptionChain.Result[0]
	chain := &Chain{
		Ticker: symbol,
		Spot:   result.Quote.RegularMarketPrice,
	}
	for _, ts := range result.ExpirationDates {
		chain.Expirations = append(chain.Expirations, time.Unix(ts, 0).UTC())
	}
	if len(result.Options) == 0 {
		return chain, nil
	}

	block := result.Options[0]
	chain.Expiry = time.Unix(block.ExpirationDate, 0).UTC()
	for _, raw := range block.Calls {
		chain.Contracts = append(chain.Contracts, raw.toContract(options.Call, chain.Expiry))
	}
	for _, raw := range block.Puts {
		chain.Contracts = append(chain.Contracts, raw.toContract(options.Put, chain.Expiry))
	}
	sort.SliceStable(chain.Contracts, func(i, j int) bool {
		if chain.Contracts[i].Strike != chain.Contracts[j].Strike {
			return chain.Contracts[i].Strike < chain.Contracts[j].Strike
		}
		return chain.Contracts[i].Type < chain.Contracts[j].Type
	})
	return chain, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	var lastErr error
	backoff := defaultRetryBackoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("yahoo: build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("yahoo: read response: %w", readErr)
			} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("yahoo: http status %d: %s", resp.StatusCode, string(body))
			} else {
				if result != nil {
					if err := json.Unmarshal(body, result); err != nil {
						return fmt.Errorf("yahoo: decode response: %w", err)
					}
				}
				return nil
			}
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
			continue
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("yahoo: request failed without error detail")
}
