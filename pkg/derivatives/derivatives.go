// Package derivatives aggregates perpetual funding history into positioning
// metrics. All computations are pure functions of the supplied samples.
package derivatives

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Funding periods per year for common venue cadences. The annualization
// factor is always an explicit parameter because cadence varies by venue:
// Hyperliquid pays hourly, most CEX perps every eight hours.
const (
	PeriodsPerYearHourly     = 24 * 365
	PeriodsPerYearEightHours = 3 * 365
)

// Sample is one funding payment observation.
type Sample struct {
	Time    time.Time `json:"time"`
	Rate    float64   `json:"rate"`
	Premium float64   `json:"premium"`
}

// Summary aggregates a funding history window. Nil pointers mean the input
// was empty; absence of recent funding data is an expected transient
// condition, never an error.
type Summary struct {
	CurrentRate    *float64 `json:"currentRate,omitempty"`
	AverageRate    *float64 `json:"averageRate,omitempty"`
	AnnualizedRate *float64 `json:"annualizedRate,omitempty"`
	MaxAnnualized  *float64 `json:"maxAnnualized,omitempty"`
	MinAnnualized  *float64 `json:"minAnnualized,omitempty"`
	SampleCount    int      `json:"sampleCount"`
	Comment        string   `json:"comment"`
	LongRatio      float64  `json:"longRatio"`
	ShortRatio     float64  `json:"shortRatio"`
}

// Summarize computes funding aggregates over the (time-ordered) samples.
// periodsPerYear scales the average rate to an annualized figure and must be
// positive; a non-positive value is a configuration bug and fails loudly.
func Summarize(samples []Sample, periodsPerYear float64) (Summary, error) {
	if periodsPerYear <= 0 {
		return Summary{}, fmt.Errorf("derivatives: periods per year must be positive, got %v", periodsPerYear)
	}

	summary := Summary{
		SampleCount: len(samples),
		Comment:     "No funding data available.",
		LongRatio:   0.5,
		ShortRatio:  0.5,
	}
	if len(samples) == 0 {
		return summary, nil
	}

	current := samples[len(samples)-1].Rate
	summary.CurrentRate = &current

	sum := 0.0
	maxAnn := math.Inf(-1)
	minAnn := math.Inf(1)
	for _, s := range samples {
		sum += s.Rate
		ann := s.Rate * periodsPerYear
		if ann > maxAnn {
			maxAnn = ann
		}
		if ann < minAnn {
			minAnn = ann
		}
	}
	average := sum / float64(len(samples))
	annualized := average * periodsPerYear

	summary.AverageRate = &average
	summary.AnnualizedRate = &annualized
	summary.MaxAnnualized = &maxAnn
	summary.MinAnnualized = &minAnn
	summary.Comment = commentFor(annualized)
	summary.LongRatio = estimateLongRatio(average)
	summary.ShortRatio = 1.0 - summary.LongRatio
	return summary, nil
}

// ResolvePeriodsPerYear picks the annualization factor for a funding window:
// an explicit positive configuration wins, otherwise the cadence is inferred
// from the samples themselves. Hyperliquid pays hourly while most CEX perps
// pay every eight hours, so a fixed default would mis-annualize one of them.
func ResolvePeriodsPerYear(configured float64, samples []Sample) float64 {
	if configured > 0 {
		return configured
	}
	return InferPeriodsPerYear(samples)
}

// InferPeriodsPerYear derives the annualization factor from the median
// spacing of the samples. Falls back to hourly cadence when fewer than two
// samples are available.
func InferPeriodsPerYear(samples []Sample) float64 {
	if len(samples) < 2 {
		return PeriodsPerYearHourly
	}
	diffs := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		d := samples[i].Time.Sub(samples[i-1].Time).Hours()
		if d > 0 {
			diffs = append(diffs, d)
		}
	}
	if len(diffs) == 0 {
		return PeriodsPerYearHourly
	}
	sort.Float64s(diffs)
	median := diffs[len(diffs)/2]
	if len(diffs)%2 == 0 {
		median = (diffs[len(diffs)/2-1] + diffs[len(diffs)/2]) / 2
	}
	if median < 0.1 {
		median = 0.1
	}
	return 24.0 * 365.0 / median
}

func commentFor(annualized float64) string {
	switch {
	case math.IsNaN(annualized) || math.IsInf(annualized, 0):
		return "Funding data unavailable."
	case annualized > 0.5:
		return fmt.Sprintf("Extremely high positive funding (%.1f%% ann avg): crowded longs, correction risk.", annualized*100)
	case annualized > 0.1:
		return fmt.Sprintf("Moderately positive funding (%.1f%% ann avg): bullish positioning.", annualized*100)
	case annualized < -0.5:
		return fmt.Sprintf("Deeply negative funding (%.1f%% ann avg): shorts crowded, squeeze risk.", annualized*100)
	case annualized < -0.1:
		return fmt.Sprintf("Moderately negative funding (%.1f%% ann avg): bearish skew.", annualized*100)
	default:
		return fmt.Sprintf("Funding near neutral (%.1f%% ann avg): balanced positioning.", annualized*100)
	}
}

// estimateLongRatio maps the mean funding rate onto a bounded long/short
// split. Typical rates are tiny (0.0001 == 0.01%), so the rate is scaled
// before the tanh squash and the output is clamped to [0.2, 0.8].
func estimateLongRatio(meanRate float64) float64 {
	if math.Abs(meanRate) <= 1e-7 {
		return 0.5
	}
	ratio := 0.5 + math.Tanh(meanRate*5000)*0.3
	return math.Max(0.2, math.Min(0.8, ratio))
}
