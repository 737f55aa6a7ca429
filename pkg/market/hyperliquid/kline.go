package hyperliquid

import (
	"context"
	"fmt"
	"time"

	"voyager-api/pkg/series"
)

var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// GetCandles fetches OHLCV data for the given interval and normalizes it.
// The venue occasionally returns candles out of order or with rounding
// artefacts; series.Normalize repairs both.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) (series.Series, error) {
	duration, ok := intervalDurations[interval]
	if !ok {
		return series.Series{}, fmt.Errorf("hyperliquid: unsupported interval %q", interval)
	}
	if limit <= 0 {
		return series.Series{}, fmt.Errorf("hyperliquid: limit must be positive")
	}

	canonical, err := c.canonicalSymbolFor(ctx, symbol)
	if err != nil {
		return series.Series{}, err
	}
	endTime := time.Now().UTC()
	startTime := endTime.Add(-duration * time.Duration(limit+10))

	var response []Candle
	request := InfoRequest{
		Type: "candleSnapshot",
		Req: CandleSnapshotRequest{
			Coin:      canonical,
			Interval:  interval,
			StartTime: startTime.UnixMilli(),
			EndTime:   endTime.UnixMilli(),
		},
	}

	if err := c.doRequest(ctx, request, &response); err != nil {
		return series.Series{}, err
	}

	raw := make([]series.RawBar, 0, len(response))
	for _, item := range response {
		raw = append(raw, series.RawBar{
			TimeMs: item.T,
			Open:   item.O,
			High:   item.H,
			Low:    item.L,
			Close:  item.C,
			Volume: item.V,
		})
	}

	normalized := series.Normalize(canonical, raw)
	if normalized.Len() > limit {
		normalized.Bars = normalized.Bars[normalized.Len()-limit:]
	}
	return normalized, nil
}
