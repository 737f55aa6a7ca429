package cache

import (
	"fmt"
	"strings"
	"time"

	"voyager-api/internal/config"
)

// Namespace is the Redis key prefix for the Voyager application.
const Namespace = "voyager"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 15*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 15*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

// Scaled applies a multiplier to a TTL class, useful for half/double TTL variants.
func (t TTLSet) Scaled(class TTLClass, factor float64) time.Duration {
	base := t.Duration(class)
	if base <= 0 || factor <= 0 {
		return base
	}
	return time.Duration(float64(base) * factor)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Market Keys ------------------------------------------------------------

// SnapshotKey caches an aggregated market snapshot per provider and symbol.
func SnapshotKey(provider, symbol string) string {
	return formatKey("snapshot", provider, symbol)
}

// CandlesKey caches a normalized candle series payload.
func CandlesKey(provider, symbol, interval string, limit int) string {
	return formatKey("candles", provider, symbol, interval, fmt.Sprintf("%d", limit))
}

// TechnicalsKey caches a computed indicator result.
func TechnicalsKey(provider, symbol string) string {
	return formatKey("technicals", provider, symbol)
}

// FundingKey caches a funding summary per lookback window.
func FundingKey(provider, symbol string, days int) string {
	return formatKey("funding", provider, symbol, fmt.Sprintf("%dd", days))
}

// AssetsKey caches the provider's asset directory.
func AssetsKey(provider string) string {
	return formatKey("assets", provider)
}

// OptionsKey caches option-chain analytics per ticker.
func OptionsKey(ticker string) string {
	return formatKey("options", ticker)
}

// PredictKey caches LLM commentary per symbol.
func PredictKey(symbol string) string {
	return formatKey("predict", symbol)
}

// --- TTL Helpers ------------------------------------------------------------

// SnapshotTTL returns the short-lived TTL for snapshot payloads.
func SnapshotTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// CandlesTTL returns the TTL for candle payloads.
func CandlesTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// TechnicalsTTL returns the TTL for indicator results.
func TechnicalsTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// FundingTTL returns the TTL for funding summaries.
func FundingTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// AssetsTTL returns the TTL for asset directories.
func AssetsTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// OptionsTTL returns the TTL for option-chain analytics; chains move slowly
// compared to perp snapshots.
func OptionsTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// PredictTTL returns the TTL for LLM commentary, doubled since generation
// is the most expensive call in the system.
func PredictTTL(ttl TTLSet) time.Duration {
	return ttl.Scaled(TTLLong, 2)
}

// FormatCacheKey is exported for dynamic key construction when patterns
// are not covered by helpers.
func FormatCacheKey(parts ...string) string {
	return formatKey(parts...)
}
