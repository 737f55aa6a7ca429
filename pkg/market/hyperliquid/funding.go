package hyperliquid

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"voyager-api/pkg/derivatives"
)

// GetFundingHistory fetches funding payments for the trailing number of
// days. Samples whose rate field fails to parse are dropped, matching the
// normalizer's tolerance for malformed records.
func (c *Client) GetFundingHistory(ctx context.Context, symbol string, days int) ([]derivatives.Sample, error) {
	if days <= 0 {
		return nil, fmt.Errorf("hyperliquid: days must be positive")
	}
	canonical, err := c.canonicalSymbolFor(ctx, symbol)
	if err != nil {
		return nil, err
	}

	endTime := time.Now().UTC()
	startTime := endTime.AddDate(0, 0, -days)

	var response []FundingHistoryEntry
	request := InfoRequest{
		Type:      "fundingHistory",
		Coin:      canonical,
		StartTime: startTime.UnixMilli(),
		EndTime:   endTime.UnixMilli(),
	}
	if err := c.doRequest(ctx, request, &response); err != nil {
		return nil, err
	}

	samples := make([]derivatives.Sample, 0, len(response))
	for _, entry := range response {
		if entry.Time <= 0 {
			continue
		}
		rate, err := strconv.ParseFloat(entry.FundingRate, 64)
		if err != nil {
			continue
		}
		premium := 0.0
		if entry.Premium != "" {
			if p, err := strconv.ParseFloat(entry.Premium, 64); err == nil {
				premium = p
			}
		}
		samples = append(samples, derivatives.Sample{
			Time:    time.UnixMilli(entry.Time).UTC(),
			Rate:    rate,
			Premium: premium,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	return samples, nil
}
