package market

import (
	"context"

	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/indicators"
	"voyager-api/pkg/series"
)

// Provider exposes exchange-agnostic market data for perpetual instruments.
type Provider interface {
	// Snapshot returns an aggregated market view for the specified symbol.
	Snapshot(ctx context.Context, symbol string) (*Snapshot, error)
	// Candles returns the normalized candle series for charting and
	// indicator computation.
	Candles(ctx context.Context, symbol, interval string, limit int) (series.Series, error)
	// FundingHistory returns time-ordered funding samples covering the
	// trailing number of days.
	FundingHistory(ctx context.Context, symbol string, days int) ([]derivatives.Sample, error)
	// ListAssets returns all supported symbols along with metadata.
	ListAssets(ctx context.Context) ([]Asset, error)
}

// Snapshot captures a normalized market view for one instrument.
type Snapshot struct {
	Symbol       string            `json:"symbol"`
	Price        PriceInfo         `json:"price"`
	Change       ChangeInfo        `json:"change"`
	Indicators   indicators.Result `json:"indicators"`
	OpenInterest *OpenInterestInfo `json:"openInterest,omitempty"`
	Funding      *FundingInfo      `json:"funding,omitempty"`
}

// Asset describes a tradeable instrument.
type Asset struct {
	Symbol      string         `json:"symbol"`
	Precision   int            `json:"precision"`
	MaxLeverage float64        `json:"maxLeverage"`
	IsActive    bool           `json:"isActive"`
	RawMetadata map[string]any `json:"rawMetadata,omitempty"`
}

// PriceInfo holds the latest price and trailing 24h aggregates. The 24h
// fields are nil when the candle history is too short to cover a day.
type PriceInfo struct {
	Last      float64  `json:"last"`
	High24h   *float64 `json:"high24h,omitempty"`
	Low24h    *float64 `json:"low24h,omitempty"`
	Volume24h *float64 `json:"volume24h,omitempty"`
}

// ChangeInfo carries percentage changes over standard windows; nil means the
// history was too short for that window.
type ChangeInfo struct {
	FourHour *float64 `json:"4h,omitempty"`
	Day      *float64 `json:"24h,omitempty"`
	Week     *float64 `json:"7d,omitempty"`
	Month    *float64 `json:"30d,omitempty"`
}

// OpenInterestInfo reports derivatives open interest.
type OpenInterestInfo struct {
	Latest float64 `json:"latest"`
}

// FundingInfo captures the venue's current funding state.
type FundingInfo struct {
	Rate    float64 `json:"rate"`
	Premium float64 `json:"premium"`
}
