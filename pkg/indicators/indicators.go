// Package indicators computes technical indicators over normalized candle
// series. Series functions return slices aligned to the input with NaN
// marking the warm-up region; the snapshot layer in this package converts
// those into explicit optional values for API consumers.
package indicators

import (
	"math"

	"voyager-api/pkg/series"
)

// EMA produces the exponential moving average for the supplied prices.
// The smoothing factor is 2/(period+1) and the series is seeded with the
// simple average of the first period values.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) == 0 {
		return []float64{}
	}
	result := make([]float64, len(prices))
	for i := range result {
		result[i] = math.NaN()
	}
	if len(prices) < period {
		return result
	}
	multiplier := 2.0 / float64(period+1)

	start := -1
	var seed float64
	for i := period - 1; i < len(prices); i++ {
		windowValid := true
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(prices[j]) {
				windowValid = false
				break
			}
			sum += prices[j]
		}
		if windowValid {
			start = i
			seed = sum / float64(period)
			break
		}
	}
	if start == -1 {
		return result
	}
	result[start] = seed

	for i := start + 1; i < len(prices); i++ {
		if math.IsNaN(prices[i]) {
			result[i] = result[i-1]
			continue
		}
		prev := result[i-1]
		if math.IsNaN(prev) {
			prev = seed
		}
		result[i] = (prices[i]-prev)*multiplier + prev
	}
	return result
}

// SMA produces the simple moving average of the trailing window values.
func SMA(prices []float64, window int) []float64 {
	if window <= 0 || len(prices) == 0 {
		return []float64{}
	}
	result := make([]float64, len(prices))
	for i := range result {
		result[i] = math.NaN()
	}
	if len(prices) < window {
		return result
	}
	sum := 0.0
	for i, price := range prices {
		sum += price
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			result[i] = sum / float64(window)
		}
	}
	return result
}

// MACD returns MACD line, signal, and histogram series for the given periods.
func MACD(prices []float64, fast, slow, signalPeriod int) ([]float64, []float64, []float64) {
	if len(prices) == 0 || fast <= 0 || slow <= 0 || signalPeriod <= 0 {
		return []float64{}, []float64{}, []float64{}
	}
	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	macd := make([]float64, len(prices))
	for i := range prices {
		if math.IsNaN(emaFast[i]) || math.IsNaN(emaSlow[i]) {
			macd[i] = math.NaN()
		} else {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	signal := EMA(macd, signalPeriod)
	hist := make([]float64, len(prices))
	for i := range hist {
		if math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			hist[i] = math.NaN()
		} else {
			hist[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, hist
}

// RSI computes the Relative Strength Index using Wilder smoothing. The
// averages are seeded with the simple mean of the first period changes and
// smoothed recursively from there.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) == 0 {
		return []float64{}
	}
	rsi := make([]float64, len(prices))
	for i := range rsi {
		rsi[i] = math.NaN()
	}
	if len(prices) <= period {
		return rsi
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain := math.Max(change, 0)
		loss := math.Max(-change, 0)

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		rsi[i] = rsiValue(avgGain, avgLoss)
	}
	return rsi
}

// ATR computes the Average True Range across the bar series.
func ATR(bars []series.Bar, period int) []float64 {
	if period <= 0 || len(bars) == 0 {
		return []float64{}
	}
	tr := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			tr[i] = bars[i].High - bars[i].Low
			continue
		}
		highLow := bars[i].High - bars[i].Low
		highClose := math.Abs(bars[i].High - bars[i-1].Close)
		lowClose := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}
	return EMA(tr, period)
}

// rsiValue folds the zero-average edge cases: flat series read as neutral 50,
// gain without loss saturates at 100, loss without gain at 0.
func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50.0
	case avgLoss == 0:
		return 100.0
	case avgGain == 0:
		return 0.0
	default:
		rs := avgGain / avgLoss
		return 100.0 - (100.0 / (1.0 + rs))
	}
}
