package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager-api/pkg/options"
)

func TestClientGetChain(t *testing.T) {
	expiry := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if !strings.HasSuffix(r.URL.Path, "/TSLA") {
			http.Error(w, "unexpected ticker", http.StatusNotFound)
			return
		}
		writeChainJSON(w, chainPayload(expiry))
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithMaxRetries(0),
	)

	chain, err := client.GetChain(context.Background(), " tsla ")
	require.NoError(t, err)
	require.Equal(t, "TSLA", chain.Ticker)
	require.InDelta(t, 100.0, chain.Spot, 1e-9)
	require.Equal(t, expiry, chain.Expiry)
	require.Len(t, chain.Expirations, 2)
	require.Len(t, chain.Contracts, 4)

	// Sorted by strike, calls before puts at equal strikes.
	require.InDelta(t, 95.0, chain.Contracts[0].Strike, 1e-9)
	require.Equal(t, options.Put, chain.Contracts[0].Type)
	require.InDelta(t, 100.0, chain.Contracts[1].Strike, 1e-9)
	require.Equal(t, options.Call, chain.Contracts[1].Type)
	require.Equal(t, options.Put, chain.Contracts[2].Type)
	require.InDelta(t, 105.0, chain.Contracts[3].Strike, 1e-9)

	require.Contains(t, gotUserAgent, "Mozilla/5.0")

	summary := options.Summarize(chain.Contracts)
	require.NotNil(t, summary.MaxPainStrike)
	require.NotNil(t, summary.IV)
}

func TestClientGetChainAtPassesDate(t *testing.T) {
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	var gotDate string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		writeChainJSON(w, chainPayload(expiry))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithMaxRetries(0))

	_, err := client.GetChainAt(context.Background(), "TSLA", expiry)
	require.NoError(t, err)
	require.Equal(t, "1792108800", gotDate)
}

func TestClientGetChainErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		ticker      string
		errContains string
	}{
		{
			name: "api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeChainJSON(w, map[string]interface{}{
					"optionChain": map[string]interface{}{
						"result": []interface{}{},
						"error":  map[string]string{"code": "Not Found", "description": "No data found"},
					},
				})
			},
			ticker:      "NOPE",
			errContains: "Not Found",
		},
		{
			name: "empty result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeChainJSON(w, map[string]interface{}{
					"optionChain": map[string]interface{}{"result": []interface{}{}},
				})
			},
			ticker:      "EMPTY",
			errContains: "no option chain",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream broke", http.StatusBadGateway)
			},
			ticker:      "TSLA",
			errContains: "http status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithMaxRetries(0))
			chain, err := client.GetChain(context.Background(), tt.ticker)
			assert.Error(t, err)
			assert.Nil(t, chain)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestClientGetChainEmptyTicker(t *testing.T) {
	client := NewClient()
	_, err := client.GetChain(context.Background(), "   ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ticker must not be empty")
}

// --- helpers ---

func chainPayload(expiry time.Time) map[string]interface{} {
	contract := func(strike, oi, iv float64) map[string]interface{} {
		return map[string]interface{}{
			"strike":            strike,
			"openInterest":      oi,
			"impliedVolatility": iv,
			"bid":               1.0,
			"ask":               1.2,
		}
	}
	return map[string]interface{}{
		"optionChain": map[string]interface{}{
			"result": []interface{}{
				map[string]interface{}{
					"underlyingSymbol": "TSLA",
					"expirationDates":  []int64{expiry.Unix(), expiry.AddDate(0, 0, 7).Unix()},
					"strikes":          []float64{95, 100, 105},
					"quote": map[string]interface{}{
						"regularMarketPrice": 100.0,
					},
					"options": []interface{}{
						map[string]interface{}{
							"expirationDate": expiry.Unix(),
							"calls": []interface{}{
								contract(100, 50, 0.42),
								contract(105, 30, 0.40),
							},
							"puts": []interface{}{
								contract(95, 40, 0.55),
								contract(100, 60, 0.48),
							},
						},
					},
				},
			},
		},
	}
}

func writeChainJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
