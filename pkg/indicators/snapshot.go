package indicators

import (
	"fmt"
	"math"
	"sort"

	"voyager-api/pkg/series"
)

// Default indicator periods, matching the common textbook definitions. The
// volatility window assumes 4h bars, so six bars cover a trading day.
const (
	DefaultRSIPeriod        = 14
	DefaultMACDFast         = 12
	DefaultMACDSlow         = 26
	DefaultMACDSignal       = 9
	DefaultATRPeriod        = 14
	DefaultVolatilityWindow = 6
)

// DefaultMAWindows are the moving-average windows computed when the caller
// does not request specific ones.
var DefaultMAWindows = []int{20, 50, 200}

// Trend classifies the relationship between the shortest and longest defined
// moving averages.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Config carries the indicator periods. Every field is explicit: behaviour is
// fully determined by the arguments, never by hidden globals.
type Config struct {
	RSIPeriod        int   `json:"rsiPeriod"`
	MACDFast         int   `json:"macdFast"`
	MACDSlow         int   `json:"macdSlow"`
	MACDSignal       int   `json:"macdSignal"`
	MAWindows        []int `json:"maWindows"`
	ATRPeriod        int   `json:"atrPeriod"`
	VolatilityWindow int   `json:"volatilityWindow"`
}

// DefaultConfig returns the standard 14 / 12-26-9 / {20,50,200} setup.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        DefaultRSIPeriod,
		MACDFast:         DefaultMACDFast,
		MACDSlow:         DefaultMACDSlow,
		MACDSignal:       DefaultMACDSignal,
		MAWindows:        append([]int(nil), DefaultMAWindows...),
		ATRPeriod:        DefaultATRPeriod,
		VolatilityWindow: DefaultVolatilityWindow,
	}
}

// Validate rejects misconfiguration. A bad period is a programming error, not
// a data-sparsity condition, so it fails loudly instead of degrading.
func (c Config) Validate() error {
	if c.RSIPeriod <= 0 {
		return fmt.Errorf("indicators: rsi period must be positive, got %d", c.RSIPeriod)
	}
	if c.MACDFast <= 0 || c.MACDSlow <= 0 || c.MACDSignal <= 0 {
		return fmt.Errorf("indicators: macd periods must be positive, got %d/%d/%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("indicators: macd fast period %d must be below slow period %d", c.MACDFast, c.MACDSlow)
	}
	for _, w := range c.MAWindows {
		if w <= 0 {
			return fmt.Errorf("indicators: moving-average window must be positive, got %d", w)
		}
	}
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("indicators: atr period must be positive, got %d", c.ATRPeriod)
	}
	if c.VolatilityWindow <= 0 {
		return fmt.Errorf("indicators: volatility window must be positive, got %d", c.VolatilityWindow)
	}
	return nil
}

// MACDSnapshot holds the latest MACD values. Signal and Histogram stay nil
// until the signal EMA has enough history to seed.
type MACDSnapshot struct {
	Line      float64  `json:"line"`
	Signal    *float64 `json:"signal,omitempty"`
	Histogram *float64 `json:"histogram,omitempty"`
}

// Result is the indicator snapshot for one series. Nil pointers and absent
// map keys mean "insufficient data"; a defined zero is always a computed
// value, never a placeholder.
type Result struct {
	RSI            *float64        `json:"rsi,omitempty"`
	MACD           *MACDSnapshot   `json:"macd,omitempty"`
	MovingAverages map[int]float64 `json:"movingAverages"`
	ATR            *float64        `json:"atr,omitempty"`
	Volatility     *float64        `json:"volatility,omitempty"`
	Trend          Trend           `json:"trend"`
	GoldenCross    bool            `json:"goldenCross"`
	DeathCross     bool            `json:"deathCross"`
}

// Compute derives the indicator snapshot for the series. The only error
// condition is an invalid config; short series degrade to undefined fields.
func Compute(s series.Series, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	closes := s.Closes()
	result := Result{
		MovingAverages: make(map[int]float64, len(cfg.MAWindows)),
		Trend:          TrendFlat,
	}

	if len(closes) >= cfg.RSIPeriod+1 {
		rsi := RSI(closes, cfg.RSIPeriod)
		if v := rsi[len(rsi)-1]; !math.IsNaN(v) {
			result.RSI = &v
		}
	}

	if len(closes) >= cfg.MACDSlow {
		macd, signal, hist := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
		last := len(closes) - 1
		if !math.IsNaN(macd[last]) {
			snap := &MACDSnapshot{Line: macd[last]}
			if !math.IsNaN(signal[last]) {
				v := signal[last]
				snap.Signal = &v
			}
			if !math.IsNaN(hist[last]) {
				v := hist[last]
				snap.Histogram = &v
			}
			result.MACD = snap
		}
	}

	for _, w := range cfg.MAWindows {
		if len(closes) < w {
			continue
		}
		sma := SMA(closes, w)
		if v := sma[len(sma)-1]; !math.IsNaN(v) {
			result.MovingAverages[w] = v
		}
	}
	result.Trend = classifyTrend(result.MovingAverages)

	if len(s.Bars) >= cfg.ATRPeriod {
		atr := ATR(s.Bars, cfg.ATRPeriod)
		if v := atr[len(atr)-1]; !math.IsNaN(v) {
			result.ATR = &v
		}
	}
	result.Volatility = RealizedVolatility(closes, cfg.VolatilityWindow)

	if len(cfg.MAWindows) >= 2 {
		windows := append([]int(nil), cfg.MAWindows...)
		sort.Ints(windows)
		short := SMA(closes, windows[0])
		long := SMA(closes, windows[len(windows)-1])
		result.GoldenCross, result.DeathCross = DetectCross(short, long, defaultCrossLookback)
	}

	return result, nil
}

// classifyTrend compares the shortest and longest defined moving averages.
// Fewer than two defined windows reads as flat rather than an error.
func classifyTrend(averages map[int]float64) Trend {
	if len(averages) < 2 {
		return TrendFlat
	}
	shortest, longest := 0, 0
	for w := range averages {
		if shortest == 0 || w < shortest {
			shortest = w
		}
		if w > longest {
			longest = w
		}
	}
	switch {
	case averages[shortest] > averages[longest]:
		return TrendUp
	case averages[shortest] < averages[longest]:
		return TrendDown
	default:
		return TrendFlat
	}
}

const defaultCrossLookback = 20

// DetectCross reports whether the short average crossed above (golden) or
// below (death) the long average within the trailing lookback entries.
func DetectCross(short, long []float64, lookback int) (golden, death bool) {
	n := len(short)
	if len(long) < n {
		n = len(long)
	}
	if n < 2 || lookback < 2 {
		return false, false
	}
	start := n - lookback
	if start < 0 {
		start = 0
	}
	prevSign := 0.0
	havePrev := false
	for i := start; i < n; i++ {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}
		sign := signOf(short[i] - long[i])
		if havePrev {
			if prevSign <= 0 && sign > 0 {
				golden = true
			}
			if prevSign >= 0 && sign < 0 {
				death = true
			}
		}
		prevSign = sign
		havePrev = true
	}
	return golden, death
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// PercentChange returns the percentage change between the latest close and
// the close n bars back, or nil when the series is too short.
func PercentChange(closes []float64, n int) *float64 {
	if n <= 0 || len(closes) <= n {
		return nil
	}
	prev := closes[len(closes)-1-n]
	if prev == 0 || math.IsNaN(prev) {
		return nil
	}
	change := (closes[len(closes)-1]/prev - 1.0) * 100.0
	return &change
}

// RealizedVolatility computes the standard deviation of log returns over the
// trailing periods bars, scaled by sqrt(periods). Nil when the series is too
// short or degenerate.
func RealizedVolatility(closes []float64, periods int) *float64 {
	if periods <= 0 || len(closes) < periods+1 {
		return nil
	}
	window := closes[len(closes)-periods-1:]
	returns := make([]float64, 0, periods)
	for i := 1; i < len(window); i++ {
		if window[i-1] <= 0 || window[i] <= 0 {
			return nil
		}
		returns = append(returns, math.Log(window[i]/window[i-1]))
	}
	if len(returns) == 0 {
		return nil
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	vol := math.Sqrt(variance) * math.Sqrt(float64(periods))
	return &vol
}
