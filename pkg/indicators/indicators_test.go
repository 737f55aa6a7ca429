package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voyager-api/pkg/series"
)

var trendingCloses = []float64{100, 101, 102, 103, 105, 107, 106, 108, 110, 111, 112, 115, 117, 119, 118, 120, 121, 123, 125, 124, 126, 127, 129, 130, 132, 133, 134, 135, 136, 138, 139, 141, 140, 142, 144, 143, 145, 147, 149, 148, 150, 151, 149, 148, 150, 152, 151, 153, 154, 156, 155, 157, 158, 160, 161, 159, 158, 157, 159, 160}

func TestEMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	result := EMA(data, 3)
	require.Len(t, result, len(data))
	require.True(t, math.IsNaN(result[0]))
	require.True(t, math.IsNaN(result[1]))
	require.InDelta(t, 2.0, result[2], 1e-9)
	require.InDelta(t, 3.0, result[3], 1e-9)
	require.InDelta(t, 4.0, result[4], 1e-9)
	require.InDelta(t, 5.0, result[5], 1e-9)
}

func TestSMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	result := SMA(data, 3)
	require.Len(t, result, len(data))
	require.True(t, math.IsNaN(result[1]))
	require.InDelta(t, 2.0, result[2], 1e-9)
	require.InDelta(t, 5.0, result[5], 1e-9)

	short := SMA([]float64{1, 2}, 3)
	require.Len(t, short, 2)
	require.True(t, math.IsNaN(short[0]))
	require.True(t, math.IsNaN(short[1]))
}

func TestMACD(t *testing.T) {
	macd, signal, hist := MACD(trendingCloses, 12, 26, 9)
	require.Len(t, macd, len(trendingCloses))
	require.Len(t, signal, len(trendingCloses))
	require.Len(t, hist, len(trendingCloses))

	last := len(trendingCloses) - 1
	require.InDelta(t, 5.582947, macd[last], 1e-6)
	require.InDelta(t, 6.307087, signal[last], 1e-6)
	require.InDelta(t, -0.724141, hist[last], 1e-6)
}

func TestRSI(t *testing.T) {
	rsi := RSI(trendingCloses, 14)
	require.Len(t, rsi, len(trendingCloses))
	require.InDelta(t, 73.084185, rsi[len(rsi)-1], 1e-6)
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100
	}
	rsi := RSI(closes, 14)
	require.InDelta(t, 50.0, rsi[len(rsi)-1], 1e-9)
}

func TestRSISaturatesWithoutLosses(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := RSI(closes, 14)
	require.InDelta(t, 100.0, rsi[len(rsi)-1], 1e-9)
}

func TestATR(t *testing.T) {
	closes := []float64{100, 101, 102, 104, 103, 105, 107, 106, 108, 110, 112, 111, 113, 115, 114, 116, 118, 117, 119, 121}
	bars := make([]series.Bar, len(closes))
	for i, close := range closes {
		bars[i] = series.Bar{High: close + 1.5, Low: close - 1.5, Close: close}
	}

	atr := ATR(bars, 14)
	require.Len(t, atr, len(bars))
	require.InDelta(t, 3.326525, atr[len(atr)-1], 1e-6)
}

func seriesFromCloses(closes []float64) series.Series {
	bars := make([]series.Bar, len(closes))
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = series.Bar{
			Time:   base.Add(time.Duration(i) * 4 * time.Hour),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}
	return series.Series{Symbol: "TEST", Bars: bars}
}

func TestComputeFullSeries(t *testing.T) {
	cfg := DefaultConfig()
	result, err := Compute(seriesFromCloses(trendingCloses), cfg)
	require.NoError(t, err)

	require.NotNil(t, result.RSI)
	require.InDelta(t, 73.084185, *result.RSI, 1e-6)

	require.NotNil(t, result.MACD)
	require.InDelta(t, 5.582947, result.MACD.Line, 1e-6)
	require.NotNil(t, result.MACD.Signal)
	require.InDelta(t, 6.307087, *result.MACD.Signal, 1e-6)
	require.NotNil(t, result.MACD.Histogram)
	require.InDelta(t, -0.724141, *result.MACD.Histogram, 1e-6)

	require.Contains(t, result.MovingAverages, 20)
	require.Contains(t, result.MovingAverages, 50)
	require.NotContains(t, result.MovingAverages, 200)
	require.Equal(t, TrendUp, result.Trend)

	require.NotNil(t, result.ATR)
	require.Positive(t, *result.ATR)
	require.NotNil(t, result.Volatility)
	require.Positive(t, *result.Volatility)
}

func TestComputeATRAndVolatilityUndefinedOnShortSeries(t *testing.T) {
	cfg := DefaultConfig()
	result, err := Compute(seriesFromCloses([]float64{100, 101, 102}), cfg)
	require.NoError(t, err)
	require.Nil(t, result.ATR)
	require.Nil(t, result.Volatility)
}

func TestComputeInsufficientData(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MAWindows = []int{5, 50}

	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107}
	result, err := Compute(seriesFromCloses(closes), cfg)
	require.NoError(t, err)

	require.Nil(t, result.RSI)
	require.Nil(t, result.MACD)
	require.Contains(t, result.MovingAverages, 5)
	require.NotContains(t, result.MovingAverages, 50)
	require.Equal(t, TrendFlat, result.Trend)
}

func TestComputeFlatSeriesRSIIsFifty(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100
	}
	result, err := Compute(seriesFromCloses(closes), DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.RSI)
	require.InDelta(t, 50.0, *result.RSI, 1e-9)
}

func TestComputeMACDSignalUndefinedNearSlowBoundary(t *testing.T) {
	closes := trendingCloses[:26]
	result, err := Compute(seriesFromCloses(closes), DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.MACD)
	require.Nil(t, result.MACD.Signal)
	require.Nil(t, result.MACD.Histogram)
}

func TestComputeDeterministic(t *testing.T) {
	s := seriesFromCloses(trendingCloses)
	cfg := DefaultConfig()
	first, err := Compute(s, cfg)
	require.NoError(t, err)
	second, err := Compute(s, cfg)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rsi period", func(c *Config) { c.RSIPeriod = -1 }},
		{"zero macd fast", func(c *Config) { c.MACDFast = 0 }},
		{"fast not below slow", func(c *Config) { c.MACDFast = 26 }},
		{"zero ma window", func(c *Config) { c.MAWindows = []int{0} }},
		{"negative atr period", func(c *Config) { c.ATRPeriod = -1 }},
		{"zero volatility window", func(c *Config) { c.VolatilityWindow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
			_, err := Compute(seriesFromCloses(trendingCloses), cfg)
			require.Error(t, err)
		})
	}
}

func TestDetectCross(t *testing.T) {
	short := []float64{1, 1, 2, 3, 4}
	long := []float64{2, 2, 2, 2, 2}
	golden, death := DetectCross(short, long, 5)
	require.True(t, golden)
	require.False(t, death)

	golden, death = DetectCross(long, short, 5)
	require.False(t, golden)
	require.True(t, death)
}

func TestPercentChange(t *testing.T) {
	closes := []float64{100, 110, 121}
	change := PercentChange(closes, 1)
	require.NotNil(t, change)
	require.InDelta(t, 10.0, *change, 1e-9)

	require.Nil(t, PercentChange(closes, 3))
	require.Nil(t, PercentChange(nil, 1))
}

func TestRealizedVolatility(t *testing.T) {
	flat := []float64{100, 100, 100, 100, 100, 100, 100}
	vol := RealizedVolatility(flat, 6)
	require.NotNil(t, vol)
	require.InDelta(t, 0.0, *vol, 1e-12)

	require.Nil(t, RealizedVolatility([]float64{100, 101}, 6))
}
