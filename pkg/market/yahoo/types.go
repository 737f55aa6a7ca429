package yahoo

import (
	"time"

	"voyager-api/pkg/options"
)

// Wire shapes for the v7 finance options response. Only the fields the
// analytics consume are decoded.
type optionChainResponse struct {
	OptionChain struct {
		Result []chainResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"optionChain"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chainResult struct {
	UnderlyingSymbol string        `json:"underlyingSymbol"`
	ExpirationDates  []int64       `json:"expirationDates"`
	Strikes          []float64     `json:"strikes"`
	Quote            quote         `json:"quote"`
	Options          []optionBlock `json:"options"`
}

type quote struct {
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	PreviousClose      float64 `json:"regularMarketPreviousClose"`
}

type optionBlock struct {
	ExpirationDate int64         `json:"expirationDate"`
	Calls          []rawContract `json:"calls"`
	Puts           []rawContract `json:"puts"`
}

type rawContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	OpenInterest      float64 `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
}

func (r rawContract) toContract(typ options.Type, expiry time.Time) options.Contract {
	return options.Contract{
		Strike:       r.Strike,
		Expiry:       expiry,
		Type:         typ,
		OpenInterest: r.OpenInterest,
		ImpliedVol:   r.ImpliedVolatility,
		Bid:          r.Bid,
		Ask:          r.Ask,
	}
}
