package hyperliquid

import (
	"encoding/json"
	"fmt"
)

// InfoRequest is the shared envelope for Hyperliquid info endpoint requests.
type InfoRequest struct {
	Type      string      `json:"type"`
	Req       interface{} `json:"req,omitempty"`
	Coin      string      `json:"coin,omitempty"`
	StartTime int64       `json:"startTime,omitempty"`
	EndTime   int64       `json:"endTime,omitempty"`
}

// CandleSnapshotRequest carries parameters for the candleSnapshot request.
type CandleSnapshotRequest struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"` // e.g. "1h", "4h"
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// Candle mirrors one entry of a candleSnapshot response. Numeric fields stay
// strings here; parsing happens in the series normalizer.
type Candle struct {
	T int64  `json:"t"` // Open timestamp (ms)
	S string `json:"s"` // Symbol
	I string `json:"i"` // Interval
	O string `json:"o"` // Open price
	C string `json:"c"` // Close price
	H string `json:"h"` // High price
	L string `json:"l"` // Low price
	V string `json:"v"` // Volume
}

// FundingHistoryEntry mirrors one entry of a fundingHistory response.
type FundingHistoryEntry struct {
	Coin        string `json:"coin"`
	FundingRate string `json:"fundingRate"`
	Premium     string `json:"premium"`
	Time        int64  `json:"time"`
}

// MetaAndAssetCtxsResponse contains market meta data and per-asset contexts.
type MetaAndAssetCtxsResponse struct {
	Universe  []UniverseEntry
	AssetCtxs []AssetCtx
}

// UniverseEntry enumerates tradable assets on Hyperliquid.
type UniverseEntry struct {
	Name          string  `json:"name"`
	SzDecimals    int     `json:"szDecimals"`
	MaxLeverage   float64 `json:"maxLeverage"`
	MarginTableID int     `json:"marginTableId"`
	IsDelisted    bool    `json:"isDelisted"`
	OnlyIsolated  bool    `json:"onlyIsolated"`
}

// AssetCtx holds per-symbol market context such as funding and open interest.
type AssetCtx struct {
	Funding      string   `json:"funding"`
	OpenInterest string   `json:"openInterest"`
	PrevDayPx    string   `json:"prevDayPx"`
	DayNtlVlm    string   `json:"dayNtlVlm"`
	DayBaseVlm   string   `json:"dayBaseVlm"`
	Premium      string   `json:"premium"`
	OraclePx     string   `json:"oraclePx"`
	MarkPx       string   `json:"markPx"`
	MidPx        string   `json:"midPx"`
	ImpactPxs    []string `json:"impactPxs"`
}

// UnmarshalJSON customises parsing to accommodate both documented and live
// API payloads.
func (m *MetaAndAssetCtxsResponse) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch len(raw) {
	case 0:
		return fmt.Errorf("unexpected metaAndAssetCtxs payload: empty array")
	case 1:
		var meta struct {
			Universe  []UniverseEntry `json:"universe"`
			AssetCtxs []AssetCtx      `json:"assetCtxs"`
		}
		if err := json.Unmarshal(raw[0], &meta); err != nil {
			return err
		}
		m.Universe = meta.Universe
		m.AssetCtxs = meta.AssetCtxs
	default:
		var meta struct {
			Universe []UniverseEntry `json:"universe"`
		}
		if err := json.Unmarshal(raw[0], &meta); err != nil {
			return err
		}
		var assetCtxs []AssetCtx
		if err := json.Unmarshal(raw[1], &assetCtxs); err != nil {
			return err
		}
		m.Universe = meta.Universe
		m.AssetCtxs = assetCtxs
	}
	return nil
}

// AllMidsResponse maps symbols to their current mid prices.
type AllMidsResponse map[string]string
