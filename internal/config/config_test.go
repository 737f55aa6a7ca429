package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "voyager-api/pkg/market/hyperliquid" // register provider for section hydration
)

func writeTempConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.NotEmpty(t, cfg.Symbols)
	require.Contains(t, cfg.Symbols, "xyz:TSLA")
	require.Equal(t, 15, cfg.TTL.Short)
	require.Equal(t, 900, cfg.TTL.Long)
	require.Zero(t, cfg.Derivatives.PeriodsPerYear) // 0 = infer from sample spacing
	require.Equal(t, 7, cfg.Derivatives.LookbackDays)

	ic, err := cfg.IndicatorConfig()
	require.NoError(t, err)
	require.Equal(t, 14, ic.RSIPeriod)
	require.Equal(t, []int{20, 50, 200}, ic.MAWindows)
	require.Equal(t, 14, ic.ATRPeriod)
	require.Equal(t, 6, ic.VolatilityWindow)

	require.Equal(t, dir, cfg.BaseDir())
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
Env: prod
Symbols:
  - xyz:TSLA
  - xyz:NVDA
TTL:
  Short: 5
  Medium: 30
  Long: 120
Indicators:
  RSIPeriod: 21
  MAWindows: [10, 30]
Derivatives:
  PeriodsPerYear: 8760
  LookbackDays: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.False(t, cfg.IsTestEnv())
	require.Equal(t, []string{"xyz:TSLA", "xyz:NVDA"}, cfg.Symbols)
	require.Equal(t, 8760, cfg.Derivatives.PeriodsPerYear)

	ic, err := cfg.IndicatorConfig()
	require.NoError(t, err)
	require.Equal(t, 21, ic.RSIPeriod)
	require.Equal(t, []int{10, 30}, ic.MAWindows)
}

func TestLoadRejectsNegativePeriodsPerYear(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
Derivatives:
  PeriodsPerYear: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "periodsPerYear")
}

func TestLoadRejectsBadIndicators(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
Indicators:
  RSIPeriod: -3
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "indicators")
}

func TestLoadRejectsBadEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
Env: staging
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "env must be one of")
}

func TestLoadHydratesSections(t *testing.T) {
	dir := t.TempDir()
	writeTempConfig(t, dir, "market.yaml", `
default: hyperliquid
providers:
  hyperliquid:
    type: hyperliquid
    timeout: 8s
`)
	path := writeTempConfig(t, dir, "voyager.yaml", `
Name: voyager-api
Host: 0.0.0.0
Port: 8888
Market:
  File: market.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Market.Value)
	require.Equal(t, "hyperliquid", cfg.Market.Value.Default)
}
