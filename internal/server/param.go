package server

import (
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// PositionReq funds a new position from a one-sided deposit
type PositionReq struct {
	Asset      string  `json:"asset"`
	Amount     float64 `json:"amount"`
	Price      float64 `json:"price"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// PositionResp reports the solved position and its opening split
type PositionResp struct {
	Liquidity  float64 `json:"liquidity"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// ValuationReq compares an existing position against a hold at a new
// price
type ValuationReq struct {
	Liquidity    float64 `json:"liquidity"`
	LowerBound   float64 `json:"lower_bound"`
	UpperBound   float64 `json:"upper_bound"`
	InitialPrice float64 `json:"initial_price"`
	NewPrice     float64 `json:"new_price"`
}

// CurveReq sweeps the valuation across prices. The position comes
// either from an explicit liquidity or from a funding deposit. The
// sweep domain comes either from explicit prices or from samples and
// span around the initial price.
type CurveReq struct {
	Asset        string    `json:"asset,omitempty"`
	Amount       float64   `json:"amount,omitempty"`
	Liquidity    float64   `json:"liquidity,omitempty"`
	LowerBound   float64   `json:"lower_bound"`
	UpperBound   float64   `json:"upper_bound"`
	InitialPrice float64   `json:"initial_price"`
	Prices       []float64 `json:"prices,omitempty"`
	Samples      int       `json:"samples,omitempty"`
	Span         float64   `json:"span,omitempty"`
}

// CurveResp carries the swept curve and the liquidity it was computed
// with
type CurveResp struct {
	Liquidity float64               `json:"liquidity"`
	Points    []position.CurvePoint `json:"points"`
}
