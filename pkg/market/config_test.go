package market

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/series"
)

type stubProvider struct{}

func (stubProvider) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	return &Snapshot{Symbol: symbol}, nil
}

func (stubProvider) Candles(ctx context.Context, symbol, interval string, limit int) (series.Series, error) {
	return series.Series{Symbol: symbol}, nil
}

func (stubProvider) FundingHistory(ctx context.Context, symbol string, days int) ([]derivatives.Sample, error) {
	return nil, nil
}

func (stubProvider) ListAssets(ctx context.Context) ([]Asset, error) {
	return nil, nil
}

func TestLoadConfigFromReader(t *testing.T) {
	RegisterProvider("stub", func(name string, cfg *ProviderConfig) (Provider, error) {
		return stubProvider{}, nil
	})

	yaml := `
default: primary
providers:
  primary:
    type: stub
    timeout: 8s
    http_timeout: 10s
    max_retries: 3
`
	cfg, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.NoError(t, err)
	require.Equal(t, "primary", cfg.Default)

	provider := cfg.Providers["primary"]
	require.Equal(t, "stub", provider.Type)
	require.Equal(t, "8s", provider.TimeoutRaw)
	require.Equal(t, float64(8), provider.Timeout.Seconds())
	require.Equal(t, 3, provider.MaxRetries)

	providers, err := cfg.BuildProviders()
	require.NoError(t, err)
	require.Contains(t, providers, "primary")
}

func TestLoadConfigRejectsUnknownType(t *testing.T) {
	yaml := `
providers:
  broken:
    type: does-not-exist
`
	_, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type")
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	RegisterProvider("stub2", func(name string, cfg *ProviderConfig) (Provider, error) {
		return stubProvider{}, nil
	})
	yaml := `
providers:
  primary:
    type: stub2
    timeout: nonsense
`
	_, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeout")
}

func TestLoadConfigRejectsMissingDefault(t *testing.T) {
	RegisterProvider("stub3", func(name string, cfg *ProviderConfig) (Provider, error) {
		return stubProvider{}, nil
	})
	yaml := `
default: absent
providers:
  primary:
    type: stub3
`
	_, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not defined")
}
