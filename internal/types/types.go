package types

import (
	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/indicators"
	"voyager-api/pkg/market"
	"voyager-api/pkg/options"
	"voyager-api/pkg/series"
)

type SymbolReq struct {
	Symbol string `path:"symbol"`
}

type CandlesReq struct {
	Symbol   string `path:"symbol"`
	Interval string `form:"interval,default=4h"`
	Limit    int    `form:"limit,default=210"`
}

type DerivativesReq struct {
	Symbol string `path:"symbol"`
	Days   int    `form:"days,optional"`
}

type OptionsReq struct {
	Ticker string `path:"ticker"`
}

type AssetsResp struct {
	Provider string         `json:"provider"`
	Assets   []market.Asset `json:"assets"`
}

type MarketResp struct {
	Provider string           `json:"provider"`
	Snapshot *market.Snapshot `json:"snapshot"`
}

type CandlesResp struct {
	Symbol   string       `json:"symbol"`
	Interval string       `json:"interval"`
	Bars     []series.Bar `json:"bars"`
}

type TechnicalsResp struct {
	Symbol     string            `json:"symbol"`
	Indicators indicators.Result `json:"indicators"`
}

type DerivativesResp struct {
	Symbol       string              `json:"symbol"`
	LookbackDays int                 `json:"lookbackDays"`
	Funding      derivatives.Summary `json:"funding"`
}

type OptionsResp struct {
	Ticker    string          `json:"ticker"`
	Expiry    string          `json:"expiry,omitempty"`
	Spot      float64         `json:"spot"`
	Contracts int             `json:"contracts"`
	Analytics options.Summary `json:"analytics"`
	ATMIV     *float64        `json:"atmIV,omitempty"`
	OTMSkew   *float64        `json:"otmSkew,omitempty"`
}

type PredictResp struct {
	Symbol     string  `json:"symbol"`
	Summary    string  `json:"summary"`
	Bias       string  `json:"bias"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
}
