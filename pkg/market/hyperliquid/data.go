package hyperliquid

import (
	"context"
	"math"

	"voyager-api/pkg/indicators"
	"voyager-api/pkg/market"
	"voyager-api/pkg/series"
)

// Snapshot assembly works off 4h candles: 6 bars cover a day, 42 a week,
// 180 a month. The lookback leaves headroom for the longest moving average.
const (
	snapshotInterval = "4h"
	snapshotLookback = 210
	barsPerDay       = 6
	changeBars4h     = 1
	changeBars24h    = 6
	changeBars7d     = 42
	changeBars30d    = 180
)

func (c *Client) buildSnapshot(ctx context.Context, symbol string, cfg indicators.Config) (*market.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := c.GetMarketInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}

	candles, err := c.GetCandles(ctx, info.Symbol, snapshotInterval, snapshotLookback)
	if err != nil {
		return nil, err
	}

	lastPrice, err := c.GetCurrentPrice(ctx, info.Symbol)
	if err != nil {
		return nil, err
	}

	result, err := indicators.Compute(candles, cfg)
	if err != nil {
		return nil, err
	}

	closes := candles.Closes()
	snapshot := &market.Snapshot{
		Symbol: info.Symbol,
		Price: market.PriceInfo{
			Last: lastPrice,
		},
		Change: market.ChangeInfo{
			FourHour: indicators.PercentChange(closes, changeBars4h),
			Day:      indicators.PercentChange(closes, changeBars24h),
			Week:     indicators.PercentChange(closes, changeBars7d),
			Month:    indicators.PercentChange(closes, changeBars30d),
		},
		Indicators: result,
	}

	if high, low, volume, ok := dayAggregates(candles); ok {
		snapshot.Price.High24h = &high
		snapshot.Price.Low24h = &low
		snapshot.Price.Volume24h = &volume
	}

	if !math.IsNaN(info.FundingRate) && info.FundingRate != 0 {
		snapshot.Funding = &market.FundingInfo{
			Rate:    info.FundingRate,
			Premium: info.Premium,
		}
	}
	if info.OpenInterest != 0 {
		snapshot.OpenInterest = &market.OpenInterestInfo{
			Latest: info.OpenInterest,
		}
	}

	return snapshot, nil
}

// dayAggregates folds the trailing 24h window of bars into high/low/volume.
func dayAggregates(s series.Series) (high, low, volume float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, 0, false
	}
	bars := s.Bars
	if len(bars) > barsPerDay {
		bars = bars[len(bars)-barsPerDay:]
	}
	high = bars[0].High
	low = bars[0].Low
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
		volume += b.Volume
	}
	return high, low, volume, true
}
