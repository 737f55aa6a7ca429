package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"voyager-api/internal/config"
	"voyager-api/pkg/confkit"
	marketpkg "voyager-api/pkg/market"
)

func TestConfigSummaryLinesNil(t *testing.T) {
	lines := ConfigSummaryLines(nil)
	require.Equal(t, []string{"Configuration: <nil>"}, lines)
}

func TestConfigSummaryLines(t *testing.T) {
	cfg := &config.Config{
		Env:     "dev",
		Symbols: []string{"xyz:TSLA", "xyz:NVDA"},
		TTL:     config.CacheTTL{Short: 15, Medium: 60, Long: 900},
		Derivatives: config.DerivativesConf{
			PeriodsPerYear: 1095,
			LookbackDays:   7,
		},
		Market: confkit.Section[marketpkg.Config]{File: "/etc/voyager/market.yaml"},
	}
	cfg.Postgres.DSN = "postgres://voyager@localhost/voyager"

	lines := ConfigSummaryLines(cfg)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, "Environment: dev")
	require.Contains(t, joined, "Symbols: 2 configured")
	require.Contains(t, joined, "Postgres: configured")
	require.Contains(t, joined, "Redis: not configured")
	require.Contains(t, joined, "TTL (short/medium/long): 15s / 60s / 900s")
	require.Contains(t, joined, "1095 periods/year over 7d lookback")

	cfg.Derivatives.PeriodsPerYear = 0
	inferred := strings.Join(ConfigSummaryLines(cfg), "\n")
	require.Contains(t, inferred, "Funding: inferred periods/year over 7d lookback")
	require.Contains(t, joined, "Market config: /etc/voyager/market.yaml")
	require.Contains(t, joined, "Predict config: not configured")
}
