// Package options computes option-chain analytics: max pain, implied
// volatility statistics, and put/call skew.
package options

import (
	"math"
	"sort"
	"time"
)

// Type distinguishes calls from puts.
type Type string

const (
	Call Type = "call"
	Put  Type = "put"
)

// Contract is one option in a chain snapshot.
type Contract struct {
	Strike       float64   `json:"strike"`
	Expiry       time.Time `json:"expiry"`
	Type         Type      `json:"type"`
	OpenInterest float64   `json:"openInterest"`
	ImpliedVol   float64   `json:"impliedVol"`
	Bid          float64   `json:"bid"`
	Ask          float64   `json:"ask"`
}

// IVSummary aggregates implied volatility over qualifying contracts.
type IVSummary struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Summary is the analytics result for one chain. Nil fields mean the chain
// did not carry enough data for that statistic; a single-sided chain yields
// partial results rather than an error.
type Summary struct {
	MaxPainStrike *float64   `json:"maxPainStrike,omitempty"`
	IV            *IVSummary `json:"iv,omitempty"`
	Skew          *float64   `json:"skew,omitempty"`
}

// Summarize computes the analytics for a chain snapshot. Contracts with zero
// or missing implied volatility are excluded from the IV statistics rather
// than counted as zero. Skew follows the difference convention: mean put IV
// minus mean call IV.
func Summarize(chain []Contract) Summary {
	summary := Summary{
		MaxPainStrike: MaxPain(chain),
	}

	var callIVs, putIVs, allIVs []float64
	for _, c := range chain {
		if c.ImpliedVol <= 0 || math.IsNaN(c.ImpliedVol) {
			continue
		}
		allIVs = append(allIVs, c.ImpliedVol)
		switch c.Type {
		case Call:
			callIVs = append(callIVs, c.ImpliedVol)
		case Put:
			putIVs = append(putIVs, c.ImpliedVol)
		}
	}

	if len(allIVs) > 0 {
		iv := IVSummary{Min: allIVs[0], Max: allIVs[0]}
		sum := 0.0
		for _, v := range allIVs {
			sum += v
			if v < iv.Min {
				iv.Min = v
			}
			if v > iv.Max {
				iv.Max = v
			}
		}
		iv.Mean = sum / float64(len(allIVs))
		summary.IV = &iv
	}

	if len(callIVs) > 0 && len(putIVs) > 0 {
		skew := mean(putIVs) - mean(callIVs)
		summary.Skew = &skew
	}
	return summary
}

// MaxPain returns the strike minimizing aggregate writer loss at settlement,
// summing in-the-money intrinsic value weighted by open interest across all
// calls and puts. Ties resolve to the lower strike. Nil for an empty chain.
func MaxPain(chain []Contract) *float64 {
	strikeSet := make(map[float64]struct{}, len(chain))
	for _, c := range chain {
		if c.Strike > 0 {
			strikeSet[c.Strike] = struct{}{}
		}
	}
	if len(strikeSet) == 0 {
		return nil
	}
	strikes := make([]float64, 0, len(strikeSet))
	for s := range strikeSet {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)

	best := strikes[0]
	bestPain := math.Inf(1)
	for _, settle := range strikes {
		pain := 0.0
		for _, c := range chain {
			oi := c.OpenInterest
			if oi <= 0 {
				continue
			}
			switch c.Type {
			case Call:
				if c.Strike < settle {
					pain += (settle - c.Strike) * oi
				}
			case Put:
				if c.Strike > settle {
					pain += (c.Strike - settle) * oi
				}
			}
		}
		// Strict comparison over ascending strikes keeps ties on the lower one.
		if pain < bestPain {
			bestPain = pain
			best = settle
		}
	}
	return &best
}

// ATMIV averages implied volatility across contracts struck within ±5% of
// the spot price. Nil when spot is non-positive or no contracts qualify.
func ATMIV(chain []Contract, spot float64) *float64 {
	if spot <= 0 {
		return nil
	}
	var ivs []float64
	for _, c := range chain {
		if c.ImpliedVol <= 0 || math.IsNaN(c.ImpliedVol) {
			continue
		}
		if math.Abs(c.Strike-spot) < spot*0.05 {
			ivs = append(ivs, c.ImpliedVol)
		}
	}
	if len(ivs) == 0 {
		return nil
	}
	m := mean(ivs)
	return &m
}

// OTMSkew approximates the 25-delta skew from out-of-the-money wings: mean
// IV of puts struck below 0.95×spot minus mean IV of calls above 1.05×spot.
// Nil when spot is non-positive or either wing is empty.
func OTMSkew(chain []Contract, spot float64) *float64 {
	if spot <= 0 {
		return nil
	}
	var putIVs, callIVs []float64
	for _, c := range chain {
		if c.ImpliedVol <= 0 || math.IsNaN(c.ImpliedVol) {
			continue
		}
		switch {
		case c.Type == Put && c.Strike < spot*0.95:
			putIVs = append(putIVs, c.ImpliedVol)
		case c.Type == Call && c.Strike > spot*1.05:
			callIVs = append(callIVs, c.ImpliedVol)
		}
	}
	if len(putIVs) == 0 || len(callIVs) == 0 {
		return nil
	}
	skew := mean(putIVs) - mean(callIVs)
	return &skew
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
