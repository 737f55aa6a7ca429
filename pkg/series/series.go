// Package series normalizes raw venue candle payloads into ordered OHLCV
// series suitable for indicator computation and charting.
package series

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// RawBar is a candle record as venues ship it: millisecond timestamp plus
// string-typed numeric fields that may fail to parse.
type RawBar struct {
	TimeMs int64  `json:"t"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Close  string `json:"c"`
	Volume string `json:"v"`
}

// Bar is a normalized candle. High/Low always bracket Open/Close.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered candle sequence for one symbol. Bars ascend strictly
// by timestamp with no duplicates. An empty series is valid and means
// "insufficient data", not an error.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Closes extracts the close prices, oldest first.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the traded volumes, oldest first.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar, or false when the series is empty.
func (s Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Normalize converts raw candles into a Series. Records whose fields do not
// parse are dropped rather than failing the batch. Bars are sorted ascending,
// de-duplicated by timestamp (last record wins), and bars whose high/low do
// not bracket open/close are widened instead of rejected, since raw feeds
// occasionally violate the invariant through rounding.
func Normalize(symbol string, raw []RawBar) Series {
	bars := make([]Bar, 0, len(raw))
	for _, r := range raw {
		bar, ok := parseBar(r)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	deduped := bars[:0]
	for _, bar := range bars {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(bar.Time) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	return Series{Symbol: symbol, Bars: deduped}
}

func parseBar(r RawBar) (Bar, bool) {
	if r.TimeMs <= 0 {
		return Bar{}, false
	}
	open, ok := parsePrice(r.Open)
	if !ok {
		return Bar{}, false
	}
	high, ok := parsePrice(r.High)
	if !ok {
		return Bar{}, false
	}
	low, ok := parsePrice(r.Low)
	if !ok {
		return Bar{}, false
	}
	closePx, ok := parsePrice(r.Close)
	if !ok {
		return Bar{}, false
	}
	volume, ok := parseNumber(r.Volume)
	if !ok || volume < 0 {
		return Bar{}, false
	}

	if hi := math.Max(open, closePx); high < hi {
		high = hi
	}
	if lo := math.Min(open, closePx); low > lo {
		low = lo
	}

	return Bar{
		Time:   time.UnixMilli(r.TimeMs).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, true
}

func parsePrice(val string) (float64, bool) {
	f, ok := parseNumber(val)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

func parseNumber(val string) (float64, bool) {
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
