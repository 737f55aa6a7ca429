package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var expiry = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

func call(strike, oi, iv float64) Contract {
	return Contract{Strike: strike, Expiry: expiry, Type: Call, OpenInterest: oi, ImpliedVol: iv}
}

func put(strike, oi, iv float64) Contract {
	return Contract{Strike: strike, Expiry: expiry, Type: Put, OpenInterest: oi, ImpliedVol: iv}
}

func TestMaxPain(t *testing.T) {
	chain := []Contract{
		call(90, 100, 0.4),
		call(100, 200, 0.35),
		put(100, 150, 0.45),
		put(110, 120, 0.5),
	}
	// Writer loss: at 90 -> puts ITM: (100-90)*150 + (110-90)*120 = 3900
	// at 100 -> calls: (100-90)*100 = 1000; puts: (110-100)*120 = 1200; total 2200
	// at 110 -> calls: 20*100 + 10*200 = 4000; total 4000
	strike := MaxPain(chain)
	require.NotNil(t, strike)
	require.InDelta(t, 100.0, *strike, 1e-9)
}

func TestMaxPainTieBreaksLower(t *testing.T) {
	// Symmetric chain: strikes 90 and 110 carry identical writer loss.
	chain := []Contract{
		call(90, 100, 0.4),
		put(110, 100, 0.4),
	}
	// at 90: put ITM (110-90)*100 = 2000; at 110: call ITM (110-90)*100 = 2000
	strike := MaxPain(chain)
	require.NotNil(t, strike)
	require.InDelta(t, 90.0, *strike, 1e-9)
}

func TestMaxPainEmptyChain(t *testing.T) {
	require.Nil(t, MaxPain(nil))
	require.Nil(t, MaxPain([]Contract{}))
}

func TestSummarizeIVStats(t *testing.T) {
	chain := []Contract{
		call(100, 10, 0.30),
		call(110, 10, 0.40),
		put(90, 10, 0.50),
		put(80, 10, 0), // zero IV excluded, not counted as zero
	}
	summary := Summarize(chain)
	require.NotNil(t, summary.IV)
	require.InDelta(t, 0.40, summary.IV.Mean, 1e-9)
	require.InDelta(t, 0.30, summary.IV.Min, 1e-9)
	require.InDelta(t, 0.50, summary.IV.Max, 1e-9)

	require.NotNil(t, summary.Skew)
	require.InDelta(t, 0.50-0.35, *summary.Skew, 1e-9)
}

func TestSummarizeCallsOnlyChain(t *testing.T) {
	chain := []Contract{
		call(100, 10, 0.30),
		call(110, 5, 0.35),
	}
	summary := Summarize(chain)
	require.NotNil(t, summary.MaxPainStrike)
	require.NotNil(t, summary.IV)
	require.InDelta(t, 0.325, summary.IV.Mean, 1e-9)
	require.Nil(t, summary.Skew)
}

func TestSummarizeEmptyChain(t *testing.T) {
	summary := Summarize(nil)
	require.Nil(t, summary.MaxPainStrike)
	require.Nil(t, summary.IV)
	require.Nil(t, summary.Skew)
}

func TestATMIV(t *testing.T) {
	chain := []Contract{
		call(100, 10, 0.30),
		put(102, 10, 0.40),
		call(120, 10, 0.60), // outside the ±5% band
	}
	iv := ATMIV(chain, 100)
	require.NotNil(t, iv)
	require.InDelta(t, 0.35, *iv, 1e-9)

	require.Nil(t, ATMIV(chain, 0))
	require.Nil(t, ATMIV([]Contract{call(200, 10, 0.3)}, 100))
}

func TestOTMSkew(t *testing.T) {
	chain := []Contract{
		put(90, 10, 0.55),
		put(85, 10, 0.65),
		call(110, 10, 0.40),
	}
	skew := OTMSkew(chain, 100)
	require.NotNil(t, skew)
	require.InDelta(t, 0.60-0.40, *skew, 1e-9)

	// No OTM calls: skew undefined.
	require.Nil(t, OTMSkew(chain[:2], 100))
	require.Nil(t, OTMSkew(chain, 0))
}
