package derivatives

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleAt(hoursAgo int, rate float64) Sample {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Sample{Time: base.Add(-time.Duration(hoursAgo) * time.Hour), Rate: rate}
}

func TestSummarize(t *testing.T) {
	samples := []Sample{
		sampleAt(2, 0.0001),
		sampleAt(1, 0.0002),
		sampleAt(0, 0.0003),
	}

	summary, err := Summarize(samples, 1095)
	require.NoError(t, err)
	require.Equal(t, 3, summary.SampleCount)
	require.NotNil(t, summary.CurrentRate)
	require.InDelta(t, 0.0003, *summary.CurrentRate, 1e-12)
	require.NotNil(t, summary.AverageRate)
	require.InDelta(t, 0.0002, *summary.AverageRate, 1e-12)
	require.NotNil(t, summary.AnnualizedRate)
	require.InDelta(t, 0.219, *summary.AnnualizedRate, 1e-9)
	require.NotNil(t, summary.MaxAnnualized)
	require.InDelta(t, 0.0003*1095, *summary.MaxAnnualized, 1e-9)
	require.NotNil(t, summary.MinAnnualized)
	require.InDelta(t, 0.0001*1095, *summary.MinAnnualized, 1e-9)
	require.Greater(t, summary.LongRatio, 0.5)
	require.InDelta(t, 1.0, summary.LongRatio+summary.ShortRatio, 1e-12)
	require.Contains(t, summary.Comment, "positive funding")
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary, err := Summarize(nil, PeriodsPerYearHourly)
	require.NoError(t, err)
	require.Equal(t, 0, summary.SampleCount)
	require.Nil(t, summary.CurrentRate)
	require.Nil(t, summary.AverageRate)
	require.Nil(t, summary.AnnualizedRate)
	require.Nil(t, summary.MaxAnnualized)
	require.Nil(t, summary.MinAnnualized)
	require.InDelta(t, 0.5, summary.LongRatio, 1e-12)
	require.InDelta(t, 0.5, summary.ShortRatio, 1e-12)
}

func TestSummarizeRejectsBadPeriodsPerYear(t *testing.T) {
	_, err := Summarize(nil, 0)
	require.Error(t, err)
	_, err = Summarize(nil, -1)
	require.Error(t, err)
}

func TestSummarizeNegativeFunding(t *testing.T) {
	samples := []Sample{
		sampleAt(1, -0.002),
		sampleAt(0, -0.002),
	}
	summary, err := Summarize(samples, PeriodsPerYearHourly)
	require.NoError(t, err)
	require.Less(t, summary.LongRatio, 0.5)
	require.GreaterOrEqual(t, summary.LongRatio, 0.2)
	require.Contains(t, summary.Comment, "negative funding")
}

func TestInferPeriodsPerYear(t *testing.T) {
	hourly := []Sample{sampleAt(3, 0), sampleAt(2, 0), sampleAt(1, 0), sampleAt(0, 0)}
	require.InDelta(t, PeriodsPerYearHourly, InferPeriodsPerYear(hourly), 1e-9)

	eightHourly := []Sample{
		{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Time: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{Time: time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)},
	}
	require.InDelta(t, PeriodsPerYearEightHours, InferPeriodsPerYear(eightHourly), 1e-9)

	require.InDelta(t, PeriodsPerYearHourly, InferPeriodsPerYear(nil), 1e-9)
}

func TestResolvePeriodsPerYear(t *testing.T) {
	hourly := []Sample{sampleAt(3, 0), sampleAt(2, 0), sampleAt(1, 0), sampleAt(0, 0)}

	// An explicit configuration always wins over the inferred cadence.
	require.InDelta(t, 1095, ResolvePeriodsPerYear(1095, hourly), 1e-9)

	// Unset configuration falls back to the sample spacing, so hourly
	// venues annualize at 8760 instead of a fixed 8-hourly factor.
	require.InDelta(t, PeriodsPerYearHourly, ResolvePeriodsPerYear(0, hourly), 1e-9)
	require.InDelta(t, PeriodsPerYearHourly, ResolvePeriodsPerYear(-5, hourly), 1e-9)

	eightHourly := []Sample{
		{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Time: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{Time: time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)},
	}
	require.InDelta(t, PeriodsPerYearEightHours, ResolvePeriodsPerYear(0, eightHourly), 1e-9)

	// Empty windows stay annualizable so Summarize never gets a zero factor.
	require.InDelta(t, PeriodsPerYearHourly, ResolvePeriodsPerYear(0, nil), 1e-9)
}
